package aggregation

import (
	"time"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

// MonthlyIncome reduces the snapshot into a month-to-date net income
// rollup: for every day from the 1st of through's month up to and
// including through, milk income (day liters x price) minus that day's
// expense total.
//
// The whole computation runs against the snapshot already in memory. The
// milk history arrived as one subtree per cow, so the cost of this routine
// is O(cows x days) map lookups, not O(cows x days) store round trips.
func MonthlyIncome(snapshot models.Snapshot, through time.Time, pricePerLiter float64) models.IncomeRollup {
	rollup := models.IncomeRollup{
		Month:     through.Format("2006-01"),
		PricePerL: pricePerLiter,
		Days:      []models.DailyIncome{},
	}

	first := time.Date(through.Year(), through.Month(), 1, 0, 0, 0, 0, through.Location())

	for day := first; !day.After(through); day = day.AddDate(0, 0, 1) {
		dateKey := models.DateKey(day)

		var liters float64
		for _, cow := range snapshot.Cows {
			record, ok := snapshot.Milk[cow.UniqueID][dateKey]
			if !ok {
				continue
			}
			liters += models.Amount(record.Morning.MilkQuantity) + models.Amount(record.Evening.MilkQuantity)
		}

		var expense float64
		if record, ok := snapshot.Expenses[dateKey]; ok {
			expense = models.Amount(record.Feed) + models.Amount(record.Doctor) + models.Amount(record.Other)
		}

		income := liters * pricePerLiter
		rollup.Days = append(rollup.Days, models.DailyIncome{
			Date:       dateKey,
			MilkLiters: liters,
			Income:     income,
			Expense:    expense,
			Net:        income - expense,
		})

		rollup.TotalLiters += liters
		rollup.TotalIncome += income
		rollup.TotalExpense += expense
	}

	rollup.NetIncome = rollup.TotalIncome - rollup.TotalExpense
	return rollup
}
