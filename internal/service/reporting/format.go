package reporting

import (
	"strconv"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

// DisplaySummary is the presentation form of a Summary: every quantity
// rendered as a fixed-point string so the mobile dashboard and the export
// template can interpolate each field unconditionally. Zero values render
// as "0.00" / "0.0", never NaN or Infinity.
type DisplaySummary struct {
	TotalCows      int `json:"totalCows"`
	HealthyCows    int `json:"healthyCows"`
	SickCows       int `json:"sickCows"`
	UnderTreatment int `json:"underTreatment"`
	Recovering     int `json:"recovering"`

	TotalMilkProduction string             `json:"totalMilkProduction"`
	AverageMilkPerCow   string             `json:"averageMilkPerCow"`
	MorningMilkTotal    string             `json:"morningMilkTotal"`
	EveningMilkTotal    string             `json:"eveningMilkTotal"`
	BestProducingCow    DisplayCowQuantity `json:"bestProducingCow"`
	LowestProducingCow  DisplayCowQuantity `json:"lowestProducingCow"`

	TotalExpenses        string           `json:"totalExpenses"`
	FeedExpenses         string           `json:"feedExpenses"`
	DoctorExpenses       string           `json:"doctorExpenses"`
	OtherExpenses        string           `json:"otherExpenses"`
	AverageExpensePerDay string           `json:"averageExpensePerDay"`
	HighestExpenseDay    DisplayDayAmount `json:"highestExpenseDay"`

	CommonIllnesses    []models.IllnessCount `json:"commonIllnesses"`
	VeterinarianVisits int                   `json:"veterinarianVisits"`
	TotalTreatmentCost string                `json:"totalTreatmentCost"`
	AverageTemperature string                `json:"averageTemperature"`

	BreedDistribution       []models.BreedCount        `json:"breedDistribution"`
	MilkQualityDistribution models.QualityDistribution `json:"milkQualityDistribution"`

	CowsNeedingAttention []models.AttentionEntry `json:"cowsNeedingAttention"`
	RecentHealthIssues   []models.HealthIssue    `json:"recentHealthIssues"`
	TopPerformers        []DisplayPerformer      `json:"topPerformers"`

	HealthyPercent       string `json:"healthyPercent"`
	FeedExpensePercent   string `json:"feedExpensePercent"`
	DoctorExpensePercent string `json:"doctorExpensePercent"`
	OtherExpensePercent  string `json:"otherExpensePercent"`
	MorningMilkPercent   string `json:"morningMilkPercent"`
	EveningMilkPercent   string `json:"eveningMilkPercent"`
}

// DisplayCowQuantity is CowQuantity with the quantity pre-formatted.
type DisplayCowQuantity struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// DisplayDayAmount is DayAmount with the amount pre-formatted.
type DisplayDayAmount struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

// DisplayPerformer is Performer with the milk total pre-formatted.
type DisplayPerformer struct {
	CowID     string `json:"cowId"`
	Name      string `json:"name"`
	Breed     string `json:"breed"`
	MilkTotal string `json:"milkTotal"`
}

// FormatSummary converts a numeric summary into its display form. Amounts
// and liters use two decimal places, percentages and temperature one.
func FormatSummary(summary models.Summary) DisplaySummary {
	out := DisplaySummary{
		TotalCows:      summary.TotalCows,
		HealthyCows:    summary.HealthyCows,
		SickCows:       summary.SickCows,
		UnderTreatment: summary.UnderTreatment,
		Recovering:     summary.Recovering,

		TotalMilkProduction: fixed2(summary.TotalMilkProduction),
		AverageMilkPerCow:   fixed2(summary.AverageMilkPerCow),
		MorningMilkTotal:    fixed2(summary.MorningMilkTotal),
		EveningMilkTotal:    fixed2(summary.EveningMilkTotal),
		BestProducingCow: DisplayCowQuantity{
			Name:     summary.BestProducingCow.Name,
			Quantity: fixed2(summary.BestProducingCow.Quantity),
		},
		LowestProducingCow: DisplayCowQuantity{
			Name:     summary.LowestProducingCow.Name,
			Quantity: fixed2(summary.LowestProducingCow.Quantity),
		},

		TotalExpenses:        fixed2(summary.TotalExpenses),
		FeedExpenses:         fixed2(summary.FeedExpenses),
		DoctorExpenses:       fixed2(summary.DoctorExpenses),
		OtherExpenses:        fixed2(summary.OtherExpenses),
		AverageExpensePerDay: fixed2(summary.AverageExpensePerDay),
		HighestExpenseDay: DisplayDayAmount{
			Date:   summary.HighestExpenseDay.Date,
			Amount: fixed2(summary.HighestExpenseDay.Amount),
		},

		VeterinarianVisits: summary.VeterinarianVisits,
		TotalTreatmentCost: fixed2(summary.TotalTreatmentCost),
		AverageTemperature: fixed1(summary.AverageTemperature),

		MilkQualityDistribution: summary.MilkQualityDistribution,

		HealthyPercent:       fixed1(summary.HealthyPercent),
		FeedExpensePercent:   fixed1(summary.FeedExpensePercent),
		DoctorExpensePercent: fixed1(summary.DoctorExpensePercent),
		OtherExpensePercent:  fixed1(summary.OtherExpensePercent),
		MorningMilkPercent:   fixed1(summary.MorningMilkPercent),
		EveningMilkPercent:   fixed1(summary.EveningMilkPercent),
	}

	// The export template interpolates every list unconditionally, so the
	// display form carries empty slices instead of nulls.
	out.CommonIllnesses = append([]models.IllnessCount{}, summary.CommonIllnesses...)
	out.BreedDistribution = append([]models.BreedCount{}, summary.BreedDistribution...)
	out.CowsNeedingAttention = append([]models.AttentionEntry{}, summary.CowsNeedingAttention...)
	out.RecentHealthIssues = append([]models.HealthIssue{}, summary.RecentHealthIssues...)

	out.TopPerformers = make([]DisplayPerformer, 0, len(summary.TopPerformers))
	for _, p := range summary.TopPerformers {
		out.TopPerformers = append(out.TopPerformers, DisplayPerformer{
			CowID:     p.CowID,
			Name:      p.Name,
			Breed:     p.Breed,
			MilkTotal: fixed2(p.MilkTotal),
		})
	}

	return out
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fixed1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
