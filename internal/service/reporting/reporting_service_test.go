package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/repository/mongodb"
)

type fakeFetcher struct {
	snapshot models.Snapshot
	err      error
	owners   []string
}

func (f *fakeFetcher) Snapshot(ctx context.Context, owner string) (models.Snapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeFetcher) Owners(ctx context.Context) ([]string, error) {
	return f.owners, nil
}

type fakeArchive struct {
	summaries []mongodb.SummarySnapshot
	rollups   []mongodb.IncomeRollupDoc
	latest    *mongodb.IncomeRollupDoc
	err       error

	latestOwner string
	latestMonth string
}

func (f *fakeArchive) SaveSummarySnapshot(ctx context.Context, snapshot mongodb.SummarySnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.summaries = append(f.summaries, snapshot)
	return nil
}

func (f *fakeArchive) SaveIncomeRollup(ctx context.Context, rollup mongodb.IncomeRollupDoc) error {
	if f.err != nil {
		return f.err
	}
	f.rollups = append(f.rollups, rollup)
	return nil
}

func (f *fakeArchive) LatestIncomeRollup(ctx context.Context, owner, month string) (*mongodb.IncomeRollupDoc, error) {
	f.latestOwner = owner
	f.latestMonth = month
	return f.latest, nil
}

type fakeSink struct {
	rows     [][]interface{}
	existing [][]interface{}
	err      error
}

func (f *fakeSink) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, values)
	return nil
}

func (f *fakeSink) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.existing, nil
}

func fixtureSnapshot() models.Snapshot {
	snapshot := models.EmptySnapshot()
	snapshot.Cows = []models.Cow{
		{UniqueID: "C1", Name: "Ganga", Breed: "Gir", UserPhoneNumber: "P1"},
		{UniqueID: "C2", Name: "Yamuna", Breed: "Gir", UserPhoneNumber: "P1"},
	}
	snapshot.Milk["C1"] = map[string]models.MilkProductionRecord{
		"2024-01-01": {
			Morning: models.MilkSession{MilkQuantity: "10"},
			Evening: models.MilkSession{MilkQuantity: "8"},
		},
	}
	snapshot.Expenses["2024-01-01"] = models.ExpenseRecord{Feed: "100", Other: "20"}
	return snapshot
}

func TestDashboardFormatsFixedPoint(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeFetcher{snapshot: fixtureSnapshot()}, &fakeArchive{}, nil, 60, nil)

	display, err := svc.Dashboard(context.Background(), "P1", nil)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if display.TotalMilkProduction != "18.00" {
		t.Fatalf("totalMilkProduction: want \"18.00\", got %q", display.TotalMilkProduction)
	}
	if display.AverageMilkPerCow != "9.00" {
		t.Fatalf("averageMilkPerCow: want \"9.00\", got %q", display.AverageMilkPerCow)
	}
	if display.TotalExpenses != "120.00" {
		t.Fatalf("totalExpenses: want \"120.00\", got %q", display.TotalExpenses)
	}
	if display.HealthyPercent != "0.0" {
		t.Fatalf("healthyPercent: want \"0.0\" (no health reports), got %q", display.HealthyPercent)
	}
	if display.BestProducingCow.Name != "Ganga" || display.BestProducingCow.Quantity != "18.00" {
		t.Fatalf("bestProducingCow: got %+v", display.BestProducingCow)
	}
}

func TestDisplaySummaryAlwaysCarriesEveryField(t *testing.T) {
	t.Parallel()

	// The export template interpolates every field unconditionally, so even
	// an empty farm must serialize with no nulls and no NaN artifacts.
	display := FormatSummary(models.Summary{})

	raw, err := json.Marshal(display)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(raw)

	if strings.Contains(text, "null") {
		t.Fatalf("display summary must not contain nulls: %s", text)
	}
	if strings.Contains(text, "NaN") || strings.Contains(text, "Inf") {
		t.Fatalf("display summary must not contain NaN/Inf: %s", text)
	}

	for _, field := range []string{
		"totalCows", "healthyCows", "sickCows", "underTreatment", "recovering",
		"totalMilkProduction", "averageMilkPerCow", "morningMilkTotal", "eveningMilkTotal",
		"bestProducingCow", "lowestProducingCow",
		"totalExpenses", "feedExpenses", "doctorExpenses", "otherExpenses",
		"averageExpensePerDay", "highestExpenseDay",
		"commonIllnesses", "veterinarianVisits", "totalTreatmentCost", "averageTemperature",
		"breedDistribution", "milkQualityDistribution",
		"cowsNeedingAttention", "recentHealthIssues", "topPerformers",
	} {
		if !strings.Contains(text, `"`+field+`"`) {
			t.Fatalf("field %s missing from display summary: %s", field, text)
		}
	}

	if display.TotalMilkProduction != "0.00" {
		t.Fatalf("zero quantity must render as \"0.00\", got %q", display.TotalMilkProduction)
	}
	if display.HealthyPercent != "0.0" {
		t.Fatalf("zero percent must render as \"0.1f\" form, got %q", display.HealthyPercent)
	}
}

func TestSummaryPropagatesFetchFailure(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("store down")
	svc := NewService(&fakeFetcher{err: fetchErr}, &fakeArchive{}, nil, 60, nil)

	if _, err := svc.Summary(context.Background(), "P1", nil); !errors.Is(err, fetchErr) {
		t.Fatalf("want fetch failure to propagate, got %v", err)
	}
}

func TestGenerateAndArchivePersistsBothDocuments(t *testing.T) {
	t.Parallel()

	archive := &fakeArchive{}
	sink := &fakeSink{}
	svc := NewService(&fakeFetcher{snapshot: fixtureSnapshot()}, archive, sink, 60, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC) }

	summary, rollup, err := svc.GenerateAndArchive(context.Background(), "P1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(archive.summaries) != 1 || archive.summaries[0].Owner != "P1" {
		t.Fatalf("summary snapshot not archived: %+v", archive.summaries)
	}
	if len(archive.rollups) != 1 || archive.rollups[0].Month != "2024-01" {
		t.Fatalf("income rollup not archived: %+v", archive.rollups)
	}
	if len(sink.rows) != 1 {
		t.Fatalf("export row not appended: %+v", sink.rows)
	}

	if summary.TotalMilkProduction != 18 {
		t.Fatalf("summary: want 18 L, got %v", summary.TotalMilkProduction)
	}
	// 18 L x 60 on the 1st, minus 120 expenses.
	if rollup.NetIncome != 960 {
		t.Fatalf("rollup net: want 960, got %v", rollup.NetIncome)
	}
}

func TestGenerateAndArchiveSurvivesSinkFailure(t *testing.T) {
	t.Parallel()

	archive := &fakeArchive{}
	sink := &fakeSink{err: errors.New("sheets quota")}
	svc := NewService(&fakeFetcher{snapshot: fixtureSnapshot()}, archive, sink, 60, nil)

	if _, _, err := svc.GenerateAndArchive(context.Background(), "P1"); err != nil {
		t.Fatalf("a sheets failure must not fail the run: %v", err)
	}
	if len(archive.summaries) != 1 {
		t.Fatal("archive write should have happened before the sink failure")
	}
}

func TestMonthlyIncomeServesArchivedRollupWhenStoreDown(t *testing.T) {
	t.Parallel()

	archived := mongodb.IncomeRollupDoc{
		Owner:       "P1",
		Month:       "2024-01",
		GeneratedAt: time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC),
		Rollup:      models.IncomeRollup{Month: "2024-01", NetIncome: 960},
	}
	archive := &fakeArchive{latest: &archived}
	svc := NewService(&fakeFetcher{err: errors.New("store down")}, archive, nil, 60, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC) }

	rollup, err := svc.MonthlyIncome(context.Background(), "P1")
	if err != nil {
		t.Fatalf("archived rollup should cover the outage: %v", err)
	}
	if rollup.NetIncome != 960 || rollup.Month != "2024-01" {
		t.Fatalf("want the archived rollup, got %+v", rollup)
	}
	if archive.latestOwner != "P1" || archive.latestMonth != "2024-01" {
		t.Fatalf("lookup scope: got owner=%q month=%q", archive.latestOwner, archive.latestMonth)
	}
}

func TestMonthlyIncomeFailsWithoutArchivedRollup(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("store down")
	svc := NewService(&fakeFetcher{err: fetchErr}, &fakeArchive{}, nil, 60, nil)

	if _, err := svc.MonthlyIncome(context.Background(), "P1"); !errors.Is(err, fetchErr) {
		t.Fatalf("want fetch failure when nothing is archived, got %v", err)
	}
}

func TestGenerateAndArchiveSkipsDuplicateExportRow(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{
		existing: [][]interface{}{
			{"2024-01-02", "P1", 2},
			{"2024-01-02", "P2", 5},
		},
	}
	svc := NewService(&fakeFetcher{snapshot: fixtureSnapshot()}, &fakeArchive{}, sink, 60, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC) }

	if _, _, err := svc.GenerateAndArchive(context.Background(), "P1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(sink.rows) != 0 {
		t.Fatalf("a row for this owner and day already exists, got append %+v", sink.rows)
	}

	// A different owner's row for the same day does not block the append.
	sink.existing = [][]interface{}{{"2024-01-02", "P2", 5}}
	if _, _, err := svc.GenerateAndArchive(context.Background(), "P1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(sink.rows) != 1 {
		t.Fatalf("want exactly one appended row, got %d", len(sink.rows))
	}
}

func TestGenerateAndArchiveFailsOnArchiveError(t *testing.T) {
	t.Parallel()

	archive := &fakeArchive{err: errors.New("mongo down")}
	svc := NewService(&fakeFetcher{snapshot: fixtureSnapshot()}, archive, nil, 60, nil)

	if _, _, err := svc.GenerateAndArchive(context.Background(), "P1"); err == nil {
		t.Fatal("want archive failure to propagate")
	}
}
