package models

// CowQuantity pairs a cow with a milk total, used for best/worst producer.
type CowQuantity struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// DayAmount pairs a dateKey with a monetary amount.
type DayAmount struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// IllnessCount is one entry of the illness-type histogram.
type IllnessCount struct {
	Illness string `json:"illness"`
	Count   int    `json:"count"`
}

// BreedCount is one entry of the breed distribution.
type BreedCount struct {
	Breed string `json:"breed"`
	Count int    `json:"count"`
}

// QualityDistribution counts milk sessions per recognized quality grade.
// Sessions with a missing or unrecognized grade increment no bucket.
type QualityDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// AttentionEntry flags a cow whose latest health report is not Healthy.
type AttentionEntry struct {
	CowID   string `json:"cowId"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Illness string `json:"illness"`
}

// HealthIssue is one non-healthy report in the recent-issues list.
type HealthIssue struct {
	CowID   string `json:"cowId"`
	CowName string `json:"cowName"`
	Date    string `json:"date"`
	Status  string `json:"status"`
	Illness string `json:"illness"`
}

// Performer is one entry of the top-performers ranking.
type Performer struct {
	CowID     string  `json:"cowId"`
	Name      string  `json:"name"`
	Breed     string  `json:"breed"`
	MilkTotal float64 `json:"milkTotal"`
}

// Summary is the derived dashboard report. It is computed on demand from a
// Snapshot and never persisted as a system of record; numeric fields stay
// numeric here, formatting for display is a presentation concern.
type Summary struct {
	TotalCows      int `json:"totalCows"`
	HealthyCows    int `json:"healthyCows"`
	SickCows       int `json:"sickCows"`
	UnderTreatment int `json:"underTreatment"`
	Recovering     int `json:"recovering"`

	TotalMilkProduction float64     `json:"totalMilkProduction"`
	AverageMilkPerCow   float64     `json:"averageMilkPerCow"`
	MorningMilkTotal    float64     `json:"morningMilkTotal"`
	EveningMilkTotal    float64     `json:"eveningMilkTotal"`
	BestProducingCow    CowQuantity `json:"bestProducingCow"`
	LowestProducingCow  CowQuantity `json:"lowestProducingCow"`

	TotalExpenses        float64   `json:"totalExpenses"`
	FeedExpenses         float64   `json:"feedExpenses"`
	DoctorExpenses       float64   `json:"doctorExpenses"`
	OtherExpenses        float64   `json:"otherExpenses"`
	AverageExpensePerDay float64   `json:"averageExpensePerDay"`
	HighestExpenseDay    DayAmount `json:"highestExpenseDay"`

	CommonIllnesses    []IllnessCount `json:"commonIllnesses"`
	VeterinarianVisits int            `json:"veterinarianVisits"`
	TotalTreatmentCost float64        `json:"totalTreatmentCost"`
	AverageTemperature float64        `json:"averageTemperature"`

	BreedDistribution       []BreedCount        `json:"breedDistribution"`
	MilkQualityDistribution QualityDistribution `json:"milkQualityDistribution"`

	CowsNeedingAttention []AttentionEntry `json:"cowsNeedingAttention"`
	RecentHealthIssues   []HealthIssue    `json:"recentHealthIssues"`
	TopPerformers        []Performer      `json:"topPerformers"`

	HealthyPercent       float64 `json:"healthyPercent"`
	FeedExpensePercent   float64 `json:"feedExpensePercent"`
	DoctorExpensePercent float64 `json:"doctorExpensePercent"`
	OtherExpensePercent  float64 `json:"otherExpensePercent"`
	MorningMilkPercent   float64 `json:"morningMilkPercent"`
	EveningMilkPercent   float64 `json:"eveningMilkPercent"`
}

// DailyIncome is one day of the monthly net-income rollup.
type DailyIncome struct {
	Date       string  `json:"date"`
	MilkLiters float64 `json:"milkLiters"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Net        float64 `json:"net"`
}

// IncomeRollup is the month-to-date income/expense reduction. Like the
// Summary it is derived data, rebuildable from the raw records at any time.
type IncomeRollup struct {
	Month        string        `json:"month"` // YYYY-MM
	PricePerL    float64       `json:"pricePerLiter"`
	Days         []DailyIncome `json:"days"`
	TotalLiters  float64       `json:"totalLiters"`
	TotalIncome  float64       `json:"totalIncome"`
	TotalExpense float64       `json:"totalExpense"`
	NetIncome    float64       `json:"netIncome"`
}
