package models

// Snapshot is the raw, owner-scoped view of every collection the aggregator
// consumes. Cows are an ordered slice (createdAt, then uniqueId) rather
// than a map: every "first encountered wins" tie-break downstream is
// defined against this order, and Go map iteration would make it random.
type Snapshot struct {
	Cows          []Cow
	HealthReports map[string]map[string]HealthReport         // cowId -> dateKey -> report
	Milk          map[string]map[string]MilkProductionRecord // cowId -> dateKey -> record
	Expenses      map[string]ExpenseRecord                   // dateKey -> record
}

// EmptySnapshot returns a snapshot with every mapping initialized, so
// callers can reduce over it without nil checks.
func EmptySnapshot() Snapshot {
	return Snapshot{
		HealthReports: make(map[string]map[string]HealthReport),
		Milk:          make(map[string]map[string]MilkProductionRecord),
		Expenses:      make(map[string]ExpenseRecord),
	}
}
