package models

import (
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the calendar-date partition key used across every
// time-series collection. Keys are local-time dates; no timezone
// normalization happens anywhere in the pipeline.
const DateKeyLayout = "2006-01-02"

// HealthStatus enumerates the mutually exclusive health classification buckets.
type HealthStatus string

const (
	StatusHealthy        HealthStatus = "Healthy"
	StatusSick           HealthStatus = "Sick"
	StatusUnderTreatment HealthStatus = "Under Treatment"
	StatusRecovering     HealthStatus = "Recovering"
)

// Cow is the registration record for a single animal. A cow belongs to
// exactly one owner and is only ever rewritten wholesale.
type Cow struct {
	UniqueID        string `json:"uniqueId"`
	Name            string `json:"name"`
	Breed           string `json:"breed"`
	DOB             string `json:"dob"`
	UserPhoneNumber string `json:"userPhoneNumber"`
	CreatedAt       string `json:"createdAt"`
}

// HealthReport is one cow's health entry for a single calendar day.
// Numeric fields arrive as decimal strings from the mobile client's text
// inputs; parsing happens at the aggregation boundary, not here.
type HealthReport struct {
	HealthStatus      string `json:"healthStatus"`
	IllnessType       string `json:"illnessType"`
	Symptoms          string `json:"symptoms"`
	Temperature       string `json:"temperature"`
	Appetite          string `json:"appetite"`
	Medication        string `json:"medication"`
	VeterinarianVisit bool   `json:"veterinarianVisit"`
	VeterinarianName  string `json:"veterinarianName"`
	TreatmentCost     string `json:"treatmentCost"`
	Notes             string `json:"notes"`
}

// MilkSession is one of the two fixed daily milking sub-records.
type MilkSession struct {
	MilkQuantity string `json:"milkQuantity"`
	MilkQuality  string `json:"milkQuality"`
	Temperature  string `json:"temperature"`
	Notes        string `json:"notes"`
}

// MilkProductionRecord holds both sessions for one cow and one calendar day.
type MilkProductionRecord struct {
	Morning MilkSession `json:"morning"`
	Evening MilkSession `json:"evening"`
}

// ExpenseRecord captures a farmer's expenses for one calendar day. Expenses
// are scoped to the owner, not to an individual cow.
type ExpenseRecord struct {
	Feed   string `json:"feed"`
	Doctor string `json:"doctor"`
	Other  string `json:"other"`
	Notes  string `json:"notes"`
}

// Amount parses a decimal-string quantity, returning 0 for anything that is
// missing or malformed. This is the only place string-typed numbers are
// allowed to cross into arithmetic.
func Amount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// OptionalAmount parses a decimal-string quantity and reports whether a
// usable value was present at all, so averages are not dragged toward zero
// by absent fields.
func OptionalAmount(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DateKey formats a time as the collection partition key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD partition key. Malformed keys yield the
// zero time so they sort before every valid date instead of failing the
// whole reduction.
func ParseDateKey(key string) time.Time {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}
	}
	return t
}
