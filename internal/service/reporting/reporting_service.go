package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/repository/mongodb"
	"github.com/SameetPathan/cowfarm/internal/repository/sheets"
	"github.com/SameetPathan/cowfarm/internal/service/aggregation"
)

const exportRowRange = "Reports!A:N"

// SnapshotFetcher is the slice of the fetcher the reporting service needs.
type SnapshotFetcher interface {
	Snapshot(ctx context.Context, owner string) (models.Snapshot, error)
	Owners(ctx context.Context) ([]string, error)
}

// Service turns raw snapshots into dashboard summaries, income rollups and
// archived report documents. A fetch failure aborts the whole operation:
// there is never a partially updated report.
type Service struct {
	fetcher SnapshotFetcher
	archive mongodb.Repository
	sink    sheets.Repository // nil when the sheets export is disabled
	price   float64
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance. sink may be nil.
func NewService(fetcher SnapshotFetcher, archive mongodb.Repository, sink sheets.Repository, pricePerLiter float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		archive: archive,
		sink:    sink,
		price:   pricePerLiter,
		logger:  logger,
		now:     time.Now,
	}
}

// Summary fetches the owner's snapshot and aggregates it. A nil window
// means all-time.
func (s *Service) Summary(ctx context.Context, owner string, window *aggregation.DateRange) (models.Summary, error) {
	snapshot, err := s.fetcher.Snapshot(ctx, owner)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load snapshot: %w", err)
	}
	return aggregation.Aggregate(snapshot, aggregation.Options{Window: window}), nil
}

// Dashboard is Summary in its display form.
func (s *Service) Dashboard(ctx context.Context, owner string, window *aggregation.DateRange) (DisplaySummary, error) {
	summary, err := s.Summary(ctx, owner, window)
	if err != nil {
		return DisplaySummary{}, err
	}
	return FormatSummary(summary), nil
}

// MonthlyIncome computes the month-to-date net income rollup for the owner.
// When the store is unreachable, the most recent archived rollup for the
// current month is served instead of an error; it is stale by at most one
// nightly run.
func (s *Service) MonthlyIncome(ctx context.Context, owner string) (models.IncomeRollup, error) {
	now := s.now()
	snapshot, err := s.fetcher.Snapshot(ctx, owner)
	if err != nil {
		doc, archiveErr := s.archive.LatestIncomeRollup(ctx, owner, now.Format("2006-01"))
		if archiveErr == nil && doc != nil {
			s.logger.Warn("store unreachable, serving archived income rollup",
				zap.String("owner", owner), zap.Time("generated_at", doc.GeneratedAt), zap.Error(err))
			return doc.Rollup, nil
		}
		return models.IncomeRollup{}, fmt.Errorf("load snapshot: %w", err)
	}
	return aggregation.MonthlyIncome(snapshot, now, s.price), nil
}

// GenerateAndArchive produces the owner's summary and income rollup from a
// single snapshot, archives both to the report database, and appends the
// daily export row when the sheets sink is enabled. Used by the nightly
// scheduler.
func (s *Service) GenerateAndArchive(ctx context.Context, owner string) (models.Summary, models.IncomeRollup, error) {
	snapshot, err := s.fetcher.Snapshot(ctx, owner)
	if err != nil {
		return models.Summary{}, models.IncomeRollup{}, fmt.Errorf("load snapshot: %w", err)
	}

	now := s.now()
	summary := aggregation.Aggregate(snapshot, aggregation.Options{})
	rollup := aggregation.MonthlyIncome(snapshot, now, s.price)

	if err := s.archive.SaveSummarySnapshot(ctx, mongodb.SummarySnapshot{
		Owner:       owner,
		GeneratedAt: now,
		Summary:     summary,
	}); err != nil {
		return models.Summary{}, models.IncomeRollup{}, fmt.Errorf("archive summary: %w", err)
	}

	if err := s.archive.SaveIncomeRollup(ctx, mongodb.IncomeRollupDoc{
		Owner:       owner,
		Month:       rollup.Month,
		GeneratedAt: now,
		Rollup:      rollup,
	}); err != nil {
		return models.Summary{}, models.IncomeRollup{}, fmt.Errorf("archive rollup: %w", err)
	}

	if s.sink != nil {
		// Cron re-runs and manual triggers must not duplicate the day's row.
		if s.exportRowExists(ctx, owner, now.Format(models.DateKeyLayout)) {
			s.logger.Debug("export row already present", zap.String("owner", owner))
		} else if err := s.appendExportRow(ctx, owner, now, summary, rollup); err != nil {
			// The archive already succeeded; a sheets hiccup should not fail
			// the nightly run.
			s.logger.Warn("sheets export failed", zap.String("owner", owner), zap.Error(err))
		}
	}

	return summary, rollup, nil
}

// Owners lists every distinct owner with at least one registered cow.
func (s *Service) Owners(ctx context.Context) ([]string, error) {
	return s.fetcher.Owners(ctx)
}

// exportRowExists reports whether the sheet already carries a row for this
// owner and date. A read failure counts as absent: appending a duplicate is
// preferable to silently dropping the day.
func (s *Service) exportRowExists(ctx context.Context, owner, dateKey string) bool {
	rows, err := s.sink.ReadRange(ctx, exportRowRange)
	if err != nil {
		s.logger.Warn("reading export rows failed", zap.Error(err))
		return false
	}
	for _, row := range rows {
		if len(row) >= 2 && row[0] == dateKey && row[1] == owner {
			return true
		}
	}
	return false
}

func (s *Service) appendExportRow(ctx context.Context, owner string, now time.Time, summary models.Summary, rollup models.IncomeRollup) error {
	values := []interface{}{
		now.Format(models.DateKeyLayout),
		owner,
		summary.TotalCows,
		summary.HealthyCows,
		summary.SickCows,
		summary.UnderTreatment,
		summary.Recovering,
		summary.TotalMilkProduction,
		summary.TotalExpenses,
		summary.TotalTreatmentCost,
		summary.VeterinarianVisits,
		rollup.TotalIncome,
		rollup.TotalExpense,
		rollup.NetIncome,
	}
	return s.sink.WriteRow(ctx, exportRowRange, values)
}
