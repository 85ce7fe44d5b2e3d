package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

type fakeStore struct {
	cows     map[string]models.Cow
	health   map[string]map[string]models.HealthReport
	milk     map[string]map[string]models.MilkProductionRecord
	expenses map[string]models.ExpenseRecord

	cowsErr     error
	healthErr   error
	expensesErr error

	expensesOwner string
}

func (f *fakeStore) Cows(ctx context.Context) (map[string]models.Cow, error) {
	return f.cows, f.cowsErr
}

func (f *fakeStore) HealthReports(ctx context.Context) (map[string]map[string]models.HealthReport, error) {
	return f.health, f.healthErr
}

func (f *fakeStore) MilkProduction(ctx context.Context) (map[string]map[string]models.MilkProductionRecord, error) {
	return f.milk, nil
}

func (f *fakeStore) Expenses(ctx context.Context, owner string) (map[string]models.ExpenseRecord, error) {
	f.expensesOwner = owner
	return f.expenses, f.expensesErr
}

func (f *fakeStore) SaveCow(ctx context.Context, cow models.Cow) error { return nil }
func (f *fakeStore) SaveHealthReport(ctx context.Context, cowID, dateKey string, report models.HealthReport) error {
	return nil
}
func (f *fakeStore) SaveMilkRecord(ctx context.Context, cowID, dateKey string, record models.MilkProductionRecord) error {
	return nil
}
func (f *fakeStore) SaveExpense(ctx context.Context, owner, dateKey string, record models.ExpenseRecord) error {
	return nil
}

func TestSnapshotFiltersByOwner(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		cows: map[string]models.Cow{
			"A1": {UniqueID: "A1", Name: "Ganga", UserPhoneNumber: "P1", CreatedAt: "2024-01-01T00:00:00Z"},
			"B1": {UniqueID: "B1", Name: "Kali", UserPhoneNumber: "P2", CreatedAt: "2024-01-02T00:00:00Z"},
			"A2": {UniqueID: "A2", Name: "Yamuna", UserPhoneNumber: "P1", CreatedAt: "2024-01-03T00:00:00Z"},
		},
		health: map[string]map[string]models.HealthReport{
			"A1": {"2024-01-05": {HealthStatus: "Healthy"}},
			"B1": {"2024-01-05": {HealthStatus: "Sick"}},
		},
		milk: map[string]map[string]models.MilkProductionRecord{
			"B1": {"2024-01-05": {}},
			"A2": {"2024-01-05": {}},
		},
		expenses: map[string]models.ExpenseRecord{
			"2024-01-05": {Feed: "10"},
		},
	}

	svc := NewService(store, nil)
	snapshot, err := svc.Snapshot(context.Background(), "P1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if len(snapshot.Cows) != 2 {
		t.Fatalf("want 2 owned cows, got %d", len(snapshot.Cows))
	}
	// Stable order: createdAt ascending.
	if snapshot.Cows[0].UniqueID != "A1" || snapshot.Cows[1].UniqueID != "A2" {
		t.Fatalf("want A1,A2 order, got %s,%s", snapshot.Cows[0].UniqueID, snapshot.Cows[1].UniqueID)
	}

	if _, ok := snapshot.HealthReports["B1"]; ok {
		t.Fatal("foreign cow's health reports leaked into the snapshot")
	}
	if _, ok := snapshot.Milk["B1"]; ok {
		t.Fatal("foreign cow's milk records leaked into the snapshot")
	}
	if _, ok := snapshot.Milk["A2"]; !ok {
		t.Fatal("owned cow's milk records missing from the snapshot")
	}

	if store.expensesOwner != "P1" {
		t.Fatalf("expenses must be read from the owner's path, got %q", store.expensesOwner)
	}
	if len(snapshot.Expenses) != 1 {
		t.Fatalf("want 1 expense day, got %d", len(snapshot.Expenses))
	}
}

func TestSnapshotAbortsOnAnyReadFailure(t *testing.T) {
	t.Parallel()

	readErr := errors.New("store unavailable")
	store := &fakeStore{
		cows:      map[string]models.Cow{"A1": {UniqueID: "A1", UserPhoneNumber: "P1"}},
		healthErr: readErr,
	}

	svc := NewService(store, nil)
	if _, err := svc.Snapshot(context.Background(), "P1"); !errors.Is(err, readErr) {
		t.Fatalf("want the read failure to abort the snapshot, got %v", err)
	}
}

func TestSnapshotRequiresOwner(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeStore{}, nil)
	if _, err := svc.Snapshot(context.Background(), ""); err == nil {
		t.Fatal("want error for empty owner")
	}
}

func TestOwnersDistinctSorted(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		cows: map[string]models.Cow{
			"1": {UniqueID: "1", UserPhoneNumber: "P2"},
			"2": {UniqueID: "2", UserPhoneNumber: "P1"},
			"3": {UniqueID: "3", UserPhoneNumber: "P2"},
			"4": {UniqueID: "4"}, // unowned record, skipped
		},
	}

	svc := NewService(store, nil)
	owners, err := svc.Owners(context.Background())
	if err != nil {
		t.Fatalf("owners: %v", err)
	}

	if len(owners) != 2 || owners[0] != "P1" || owners[1] != "P2" {
		t.Fatalf("want [P1 P2], got %v", owners)
	}
}
