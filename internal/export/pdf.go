// Package export renders the aggregated farm report as a PDF document.
// Every summary field is interpolated unconditionally, so an empty farm
// still produces a complete report with zero values.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/service/reporting"
)

// FarmReportPDF renders the display summary (plus the income rollup when
// present) into a PDF and returns the raw bytes.
func FarmReportPDF(owner string, summary reporting.DisplaySummary, rollup *models.IncomeRollup, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Farm Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Owner: %s", owner), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("02 Jan 2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	sectionTitle(pdf, "Herd Overview")
	keyValue(pdf, "Total cows", fmt.Sprintf("%d", summary.TotalCows))
	keyValue(pdf, "Healthy", fmt.Sprintf("%d (%s%%)", summary.HealthyCows, summary.HealthyPercent))
	keyValue(pdf, "Sick", fmt.Sprintf("%d", summary.SickCows))
	keyValue(pdf, "Under treatment", fmt.Sprintf("%d", summary.UnderTreatment))
	keyValue(pdf, "Recovering", fmt.Sprintf("%d", summary.Recovering))

	sectionTitle(pdf, "Milk Production")
	keyValue(pdf, "Total production (L)", summary.TotalMilkProduction)
	keyValue(pdf, "Average per cow (L)", summary.AverageMilkPerCow)
	keyValue(pdf, "Morning total (L)", fmt.Sprintf("%s (%s%%)", summary.MorningMilkTotal, summary.MorningMilkPercent))
	keyValue(pdf, "Evening total (L)", fmt.Sprintf("%s (%s%%)", summary.EveningMilkTotal, summary.EveningMilkPercent))
	keyValue(pdf, "Best producer", fmt.Sprintf("%s (%s L)", summary.BestProducingCow.Name, summary.BestProducingCow.Quantity))
	keyValue(pdf, "Lowest producer", fmt.Sprintf("%s (%s L)", summary.LowestProducingCow.Name, summary.LowestProducingCow.Quantity))
	keyValue(pdf, "Quality (E/G/F/P)", fmt.Sprintf("%d / %d / %d / %d",
		summary.MilkQualityDistribution.Excellent,
		summary.MilkQualityDistribution.Good,
		summary.MilkQualityDistribution.Fair,
		summary.MilkQualityDistribution.Poor))

	sectionTitle(pdf, "Expenses")
	keyValue(pdf, "Total expenses", summary.TotalExpenses)
	keyValue(pdf, "Feed", fmt.Sprintf("%s (%s%%)", summary.FeedExpenses, summary.FeedExpensePercent))
	keyValue(pdf, "Doctor", fmt.Sprintf("%s (%s%%)", summary.DoctorExpenses, summary.DoctorExpensePercent))
	keyValue(pdf, "Other", fmt.Sprintf("%s (%s%%)", summary.OtherExpenses, summary.OtherExpensePercent))
	keyValue(pdf, "Average per day", summary.AverageExpensePerDay)
	keyValue(pdf, "Highest expense day", fmt.Sprintf("%s (%s)", summary.HighestExpenseDay.Date, summary.HighestExpenseDay.Amount))

	sectionTitle(pdf, "Health")
	keyValue(pdf, "Veterinarian visits", fmt.Sprintf("%d", summary.VeterinarianVisits))
	keyValue(pdf, "Treatment cost", summary.TotalTreatmentCost)
	keyValue(pdf, "Average temperature", summary.AverageTemperature)

	listSection(pdf, "Common Illnesses", len(summary.CommonIllnesses), func(i int) string {
		ill := summary.CommonIllnesses[i]
		return fmt.Sprintf("%s: %d", ill.Illness, ill.Count)
	})
	listSection(pdf, "Breed Distribution", len(summary.BreedDistribution), func(i int) string {
		breed := summary.BreedDistribution[i]
		return fmt.Sprintf("%s: %d", breed.Breed, breed.Count)
	})
	listSection(pdf, "Cows Needing Attention", len(summary.CowsNeedingAttention), func(i int) string {
		entry := summary.CowsNeedingAttention[i]
		if entry.Illness != "" {
			return fmt.Sprintf("%s - %s (%s)", entry.Name, entry.Status, entry.Illness)
		}
		return fmt.Sprintf("%s - %s", entry.Name, entry.Status)
	})
	listSection(pdf, "Recent Health Issues", len(summary.RecentHealthIssues), func(i int) string {
		issue := summary.RecentHealthIssues[i]
		return fmt.Sprintf("%s %s - %s", issue.Date, issue.CowName, issue.Status)
	})
	listSection(pdf, "Top Performers", len(summary.TopPerformers), func(i int) string {
		p := summary.TopPerformers[i]
		return fmt.Sprintf("%s (%s): %s L", p.Name, p.Breed, p.MilkTotal)
	})

	if rollup != nil {
		sectionTitle(pdf, fmt.Sprintf("Income %s", rollup.Month))
		keyValue(pdf, "Milk sold (L)", fmt.Sprintf("%.2f", rollup.TotalLiters))
		keyValue(pdf, "Income", fmt.Sprintf("%.2f", rollup.TotalIncome))
		keyValue(pdf, "Expenses", fmt.Sprintf("%.2f", rollup.TotalExpense))
		keyValue(pdf, "Net income", fmt.Sprintf("%.2f", rollup.NetIncome))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
}

func keyValue(pdf *gofpdf.Fpdf, key, value string) {
	pdf.CellFormat(70, 7, key, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func listSection(pdf *gofpdf.Fpdf, title string, n int, line func(int) string) {
	sectionTitle(pdf, title)
	if n == 0 {
		pdf.CellFormat(0, 7, "None", "", 1, "L", false, 0, "")
		return
	}
	for i := 0; i < n; i++ {
		pdf.CellFormat(0, 7, line(i), "", 1, "L", false, 0, "")
	}
}
