package aggregation

import (
	"testing"
	"time"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

func TestMonthlyIncomeMonthToDate(t *testing.T) {
	t.Parallel()

	snapshot := snapshotWithCows(cow("C1", "Ganga", "Gir"), cow("C2", "Yamuna", "Gir"))
	snapshot.Milk["C1"] = map[string]models.MilkProductionRecord{
		"2024-01-01": milkDay("10", "8"),
		"2024-01-02": milkDay("12", "9"),
		"2024-02-01": milkDay("99", "99"), // outside the month
	}
	snapshot.Milk["C2"] = map[string]models.MilkProductionRecord{
		"2024-01-01": milkDay("5", "4"),
	}
	snapshot.Expenses = map[string]models.ExpenseRecord{
		"2024-01-01": {Feed: "100", Other: "20"},
		"2024-01-02": {Feed: "150", Doctor: "300"},
	}

	through := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	rollup := MonthlyIncome(snapshot, through, 60)

	if rollup.Month != "2024-01" {
		t.Fatalf("month: want 2024-01, got %s", rollup.Month)
	}
	if len(rollup.Days) != 3 {
		t.Fatalf("want one entry per day through the 3rd, got %d", len(rollup.Days))
	}

	// Day 1: 27 L x 60 - 120 = 1500. Day 2: 21 L x 60 - 450 = 810. Day 3: 0.
	day1 := rollup.Days[0]
	if day1.Date != "2024-01-01" || !almostEqual(day1.MilkLiters, 27) || !almostEqual(day1.Net, 1500) {
		t.Fatalf("day1: got %+v", day1)
	}
	day2 := rollup.Days[1]
	if !almostEqual(day2.Income, 1260) || !almostEqual(day2.Expense, 450) || !almostEqual(day2.Net, 810) {
		t.Fatalf("day2: got %+v", day2)
	}
	day3 := rollup.Days[2]
	if !almostEqual(day3.Income, 0) || !almostEqual(day3.Expense, 0) || !almostEqual(day3.Net, 0) {
		t.Fatalf("day3 should be all-zero, got %+v", day3)
	}

	if !almostEqual(rollup.TotalLiters, 48) {
		t.Fatalf("totalLiters: want 48, got %v", rollup.TotalLiters)
	}
	if !almostEqual(rollup.TotalIncome, 2880) {
		t.Fatalf("totalIncome: want 2880, got %v", rollup.TotalIncome)
	}
	if !almostEqual(rollup.TotalExpense, 570) {
		t.Fatalf("totalExpense: want 570, got %v", rollup.TotalExpense)
	}
	if !almostEqual(rollup.NetIncome, 2310) {
		t.Fatalf("netIncome: want 2310, got %v", rollup.NetIncome)
	}
}

func TestMonthlyIncomeFirstOfMonth(t *testing.T) {
	t.Parallel()

	snapshot := snapshotWithCows(cow("C1", "Ganga", "Gir"))
	snapshot.Milk["C1"] = map[string]models.MilkProductionRecord{
		"2024-03-01": milkDay("2", "3"),
	}

	through := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	rollup := MonthlyIncome(snapshot, through, 60)

	if len(rollup.Days) != 1 {
		t.Fatalf("want a single day on the 1st, got %d", len(rollup.Days))
	}
	if !almostEqual(rollup.NetIncome, 300) {
		t.Fatalf("netIncome: want 300, got %v", rollup.NetIncome)
	}
}

func TestMonthlyIncomeEmptySnapshot(t *testing.T) {
	t.Parallel()

	through := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	rollup := MonthlyIncome(models.EmptySnapshot(), through, 60)

	if len(rollup.Days) != 10 {
		t.Fatalf("want 10 zero days, got %d", len(rollup.Days))
	}
	if rollup.TotalIncome != 0 || rollup.TotalExpense != 0 || rollup.NetIncome != 0 {
		t.Fatalf("want zero totals, got %+v", rollup)
	}
}
