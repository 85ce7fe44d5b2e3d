// Package aggregation reduces a raw owner-scoped snapshot into the fixed
// dashboard summary. Everything in this package is pure: same snapshot in,
// same summary out, no I/O and no clock access. That boundary is what keeps
// the reporting pipeline unit-testable without a store or network.
package aggregation

import (
	"sort"
	"strings"
	"time"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

const (
	maxAttentionEntries = 10
	maxCommonIllnesses  = 5
	maxRecentIssues     = 5
	maxTopPerformers    = 5
)

// DateRange is an inclusive dateKey window. Keys are fixed-width
// YYYY-MM-DD strings, so lexicographic comparison is chronological.
type DateRange struct {
	From string
	To   string
}

// Contains reports whether the dateKey falls inside the window.
func (r DateRange) Contains(dateKey string) bool {
	if r.From != "" && dateKey < r.From {
		return false
	}
	if r.To != "" && dateKey > r.To {
		return false
	}
	return true
}

// Options tunes a single aggregation pass. A nil Window means all-time,
// which is the dashboard default; windowing is always an explicit request,
// never an implicit period.
type Options struct {
	Window *DateRange
}

func (o Options) includes(dateKey string) bool {
	if o.Window == nil {
		return true
	}
	return o.Window.Contains(dateKey)
}

// latestReport is the most recently dated health report for one cow, or
// absent when the cow has no report in the window.
type latestReport struct {
	report  models.HealthReport
	dateKey string
	present bool
}

// Aggregate reduces the snapshot into the summary consumed by both the
// dashboard and the exported report. Malformed individual records never
// fail the pass: missing numeric fields reduce as zero and unparseable
// dates sort as the zero time.
func Aggregate(snapshot models.Snapshot, opts Options) models.Summary {
	summary := models.Summary{
		CommonIllnesses:      []models.IllnessCount{},
		BreedDistribution:    []models.BreedCount{},
		CowsNeedingAttention: []models.AttentionEntry{},
		RecentHealthIssues:   []models.HealthIssue{},
		TopPerformers:        []models.Performer{},
	}

	summary.TotalCows = len(snapshot.Cows)

	latest := aggregateHealth(&summary, snapshot, opts)
	milkTotals := aggregateMilk(&summary, snapshot, opts)
	aggregateExpenses(&summary, snapshot, opts)
	aggregateBreeds(&summary, snapshot)
	rankTopPerformers(&summary, snapshot, latest, milkTotals)

	summary.HealthyPercent = percent(float64(summary.HealthyCows), float64(summary.TotalCows))
	summary.FeedExpensePercent = percent(summary.FeedExpenses, summary.TotalExpenses)
	summary.DoctorExpensePercent = percent(summary.DoctorExpenses, summary.TotalExpenses)
	summary.OtherExpensePercent = percent(summary.OtherExpenses, summary.TotalExpenses)
	summary.MorningMilkPercent = percent(summary.MorningMilkTotal, summary.TotalMilkProduction)
	summary.EveningMilkPercent = percent(summary.EveningMilkTotal, summary.TotalMilkProduction)

	return summary
}

func aggregateHealth(summary *models.Summary, snapshot models.Snapshot, opts Options) map[string]latestReport {
	latest := make(map[string]latestReport, len(snapshot.Cows))
	illnesses := map[string]int{}
	var illnessOrder []string

	var tempSum float64
	var tempCount int
	var issues []models.HealthIssue

	for _, cow := range snapshot.Cows {
		reports := snapshot.HealthReports[cow.UniqueID]

		var best latestReport
		var bestTime time.Time

		for dateKey, report := range reports {
			if !opts.includes(dateKey) {
				continue
			}

			reportTime := models.ParseDateKey(dateKey)
			if !best.present || reportTime.After(bestTime) || (reportTime.Equal(bestTime) && dateKey > best.dateKey) {
				best = latestReport{report: report, dateKey: dateKey, present: true}
				bestTime = reportTime
			}

			if report.VeterinarianVisit {
				summary.VeterinarianVisits++
			}
			summary.TotalTreatmentCost += models.Amount(report.TreatmentCost)

			if temp, ok := models.OptionalAmount(report.Temperature); ok {
				tempSum += temp
				tempCount++
			}

			if illness := strings.TrimSpace(report.IllnessType); illness != "" {
				if _, seen := illnesses[illness]; !seen {
					illnessOrder = append(illnessOrder, illness)
				}
				illnesses[illness]++
			}

			if !statusIsHealthy(report.HealthStatus) {
				issues = append(issues, models.HealthIssue{
					CowID:   cow.UniqueID,
					CowName: cow.Name,
					Date:    dateKey,
					Status:  report.HealthStatus,
					Illness: report.IllnessType,
				})
			}
		}

		latest[cow.UniqueID] = best
		if !best.present {
			continue
		}

		switch normalizeStatus(best.report.HealthStatus) {
		case models.StatusHealthy:
			summary.HealthyCows++
		case models.StatusSick:
			summary.SickCows++
		case models.StatusUnderTreatment:
			summary.UnderTreatment++
		case models.StatusRecovering:
			summary.Recovering++
		}

		if !statusIsHealthy(best.report.HealthStatus) && len(summary.CowsNeedingAttention) < maxAttentionEntries {
			summary.CowsNeedingAttention = append(summary.CowsNeedingAttention, models.AttentionEntry{
				CowID:   cow.UniqueID,
				Name:    cow.Name,
				Status:  best.report.HealthStatus,
				Illness: best.report.IllnessType,
			})
		}
	}

	if tempCount > 0 {
		summary.AverageTemperature = tempSum / float64(tempCount)
	}

	// Illness histogram: count descending, insertion order breaks ties.
	sort.SliceStable(illnessOrder, func(i, j int) bool {
		return illnesses[illnessOrder[i]] > illnesses[illnessOrder[j]]
	})
	for _, illness := range illnessOrder {
		if len(summary.CommonIllnesses) == maxCommonIllnesses {
			break
		}
		summary.CommonIllnesses = append(summary.CommonIllnesses, models.IllnessCount{Illness: illness, Count: illnesses[illness]})
	}

	// Recent issues: newest first, cow order breaks same-day ties.
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Date > issues[j].Date
	})
	if len(issues) > maxRecentIssues {
		issues = issues[:maxRecentIssues]
	}
	summary.RecentHealthIssues = append(summary.RecentHealthIssues, issues...)

	return latest
}

func aggregateMilk(summary *models.Summary, snapshot models.Snapshot, opts Options) map[string]float64 {
	totals := make(map[string]float64, len(snapshot.Cows))

	var haveBest bool
	var best, worst models.CowQuantity

	for _, cow := range snapshot.Cows {
		var cowTotal float64

		for dateKey, record := range snapshot.Milk[cow.UniqueID] {
			if !opts.includes(dateKey) {
				continue
			}

			morning := models.Amount(record.Morning.MilkQuantity)
			evening := models.Amount(record.Evening.MilkQuantity)

			cowTotal += morning + evening
			summary.MorningMilkTotal += morning
			summary.EveningMilkTotal += evening

			countQuality(&summary.MilkQualityDistribution, record.Morning.MilkQuality)
			countQuality(&summary.MilkQualityDistribution, record.Evening.MilkQuality)
		}

		totals[cow.UniqueID] = cowTotal
		summary.TotalMilkProduction += cowTotal

		// Strict comparisons keep the first-encountered cow on ties; the
		// snapshot's cow order is the documented tie-break.
		if !haveBest {
			haveBest = true
			best = models.CowQuantity{Name: cow.Name, Quantity: cowTotal}
			worst = best
			continue
		}
		if cowTotal > best.Quantity {
			best = models.CowQuantity{Name: cow.Name, Quantity: cowTotal}
		}
		if cowTotal < worst.Quantity {
			worst = models.CowQuantity{Name: cow.Name, Quantity: cowTotal}
		}
	}

	summary.BestProducingCow = best
	summary.LowestProducingCow = worst

	if summary.TotalCows > 0 {
		summary.AverageMilkPerCow = summary.TotalMilkProduction / float64(summary.TotalCows)
	}

	return totals
}

func aggregateExpenses(summary *models.Summary, snapshot models.Snapshot, opts Options) {
	dateKeys := make([]string, 0, len(snapshot.Expenses))
	for dateKey := range snapshot.Expenses {
		if opts.includes(dateKey) {
			dateKeys = append(dateKeys, dateKey)
		}
	}
	// Ascending key order makes "first occurrence wins" mean the earliest
	// day when two days tie for the highest total.
	sort.Strings(dateKeys)

	for _, dateKey := range dateKeys {
		record := snapshot.Expenses[dateKey]

		feed := models.Amount(record.Feed)
		doctor := models.Amount(record.Doctor)
		other := models.Amount(record.Other)
		dayTotal := feed + doctor + other

		summary.FeedExpenses += feed
		summary.DoctorExpenses += doctor
		summary.OtherExpenses += other
		summary.TotalExpenses += dayTotal

		if dayTotal > summary.HighestExpenseDay.Amount {
			summary.HighestExpenseDay = models.DayAmount{Date: dateKey, Amount: dayTotal}
		}
	}

	if len(dateKeys) > 0 {
		summary.AverageExpensePerDay = summary.TotalExpenses / float64(len(dateKeys))
	}
}

func aggregateBreeds(summary *models.Summary, snapshot models.Snapshot) {
	counts := map[string]int{}
	var order []string

	for _, cow := range snapshot.Cows {
		breed := strings.TrimSpace(cow.Breed)
		if breed == "" {
			continue
		}
		if _, seen := counts[breed]; !seen {
			order = append(order, breed)
		}
		counts[breed]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	for _, breed := range order {
		summary.BreedDistribution = append(summary.BreedDistribution, models.BreedCount{Breed: breed, Count: counts[breed]})
	}
}

func rankTopPerformers(summary *models.Summary, snapshot models.Snapshot, latest map[string]latestReport, milkTotals map[string]float64) {
	performers := make([]models.Performer, 0, len(snapshot.Cows))

	for _, cow := range snapshot.Cows {
		report := latest[cow.UniqueID]
		// Healthy-by-default: a cow with no health record at all stays
		// eligible for the ranking.
		if report.present && !statusIsHealthy(report.report.HealthStatus) {
			continue
		}
		performers = append(performers, models.Performer{
			CowID:     cow.UniqueID,
			Name:      cow.Name,
			Breed:     cow.Breed,
			MilkTotal: milkTotals[cow.UniqueID],
		})
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].MilkTotal > performers[j].MilkTotal
	})
	if len(performers) > maxTopPerformers {
		performers = performers[:maxTopPerformers]
	}
	summary.TopPerformers = append(summary.TopPerformers, performers...)
}

func countQuality(dist *models.QualityDistribution, raw string) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "excellent":
		dist.Excellent++
	case "good":
		dist.Good++
	case "fair":
		dist.Fair++
	case "poor":
		dist.Poor++
	}
	// Anything else is dropped on purpose, not counted as "unknown".
}

func normalizeStatus(raw string) models.HealthStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "healthy":
		return models.StatusHealthy
	case "sick":
		return models.StatusSick
	case "under treatment":
		return models.StatusUnderTreatment
	case "recovering":
		return models.StatusRecovering
	default:
		return ""
	}
}

func statusIsHealthy(raw string) bool {
	return normalizeStatus(raw) == models.StatusHealthy
}

// percent computes part/whole*100 with a guarded zero denominator, so the
// summary never carries NaN or Inf into display or export.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
