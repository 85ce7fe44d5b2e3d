package fetcher

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/repository/docstore"
)

// Service retrieves the full raw snapshot needed for aggregation, scoped to
// one owner. The store cannot filter server-side on these paths, so every
// collection is fetched whole and scoped here.
type Service struct {
	repo   docstore.Repository
	logger *zap.Logger
}

// NewService wires a new fetcher instance.
func NewService(repo docstore.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Snapshot fans out one read per collection, waits for all of them, and
// returns the owner-scoped snapshot. Any single read failure aborts the
// whole fetch and cancels the remaining reads; the caller gets no partial
// data. Cancelling ctx aborts in-flight reads the same way.
func (s *Service) Snapshot(ctx context.Context, owner string) (models.Snapshot, error) {
	if owner == "" {
		return models.Snapshot{}, fmt.Errorf("owner must not be empty")
	}

	var (
		cows     map[string]models.Cow
		health   map[string]map[string]models.HealthReport
		milk     map[string]map[string]models.MilkProductionRecord
		expenses map[string]models.ExpenseRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cows, err = s.repo.Cows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		health, err = s.repo.HealthReports(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		milk, err = s.repo.MilkProduction(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repo.Expenses(gctx, owner)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, fmt.Errorf("fetch snapshot for %s: %w", owner, err)
	}

	snapshot := scopeToOwner(owner, cows, health, milk, expenses)

	s.logger.Debug("snapshot fetched",
		zap.String("owner", owner),
		zap.Int("cows", len(snapshot.Cows)),
		zap.Int("expense_days", len(snapshot.Expenses)))

	return snapshot, nil
}

// Owners lists every distinct owner that has at least one registered cow,
// sorted for stable scheduling order.
func (s *Service) Owners(ctx context.Context) ([]string, error) {
	cows, err := s.repo.Cows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	seen := map[string]struct{}{}
	var owners []string
	for _, cow := range cows {
		if cow.UserPhoneNumber == "" {
			continue
		}
		if _, ok := seen[cow.UserPhoneNumber]; ok {
			continue
		}
		seen[cow.UserPhoneNumber] = struct{}{}
		owners = append(owners, cow.UserPhoneNumber)
	}
	sort.Strings(owners)
	return owners, nil
}

// scopeToOwner applies the ownership filter before anything downstream can
// reduce over the data, and fixes the cow iteration order (createdAt, then
// uniqueId) that downstream tie-breaks are defined against.
func scopeToOwner(
	owner string,
	cows map[string]models.Cow,
	health map[string]map[string]models.HealthReport,
	milk map[string]map[string]models.MilkProductionRecord,
	expenses map[string]models.ExpenseRecord,
) models.Snapshot {
	snapshot := models.EmptySnapshot()

	for id, cow := range cows {
		if cow.UserPhoneNumber != owner {
			continue
		}
		if cow.UniqueID == "" {
			cow.UniqueID = id
		}
		snapshot.Cows = append(snapshot.Cows, cow)
	}

	sort.Slice(snapshot.Cows, func(i, j int) bool {
		a, b := snapshot.Cows[i], snapshot.Cows[j]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.UniqueID < b.UniqueID
	})

	for _, cow := range snapshot.Cows {
		if reports, ok := health[cow.UniqueID]; ok {
			snapshot.HealthReports[cow.UniqueID] = reports
		}
		if records, ok := milk[cow.UniqueID]; ok {
			snapshot.Milk[cow.UniqueID] = records
		}
	}

	// Expenses were read from the owner's own path; no further filtering.
	if expenses != nil {
		snapshot.Expenses = expenses
	}

	return snapshot
}
