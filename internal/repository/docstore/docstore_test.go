package docstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SameetPathan/cowfarm/internal/config"
	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.StoreConfig{
		BaseURL:      server.URL,
		AuthToken:    "secret",
		FetchTimeout: 2 * time.Second,
	}, nil)
	return client, server
}

func TestCowsReadsSubtree(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.URL.Query().Get("auth")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"c1":{"uniqueId":"c1","name":"Ganga","userPhoneNumber":"P1"}}`))
	})

	cows, err := client.Cows(context.Background())
	if err != nil {
		t.Fatalf("cows: %v", err)
	}

	if gotPath != "/cows.json" {
		t.Fatalf("want /cows.json, got %s", gotPath)
	}
	if gotAuth != "secret" {
		t.Fatalf("auth token missing, got %q", gotAuth)
	}
	if len(cows) != 1 || cows["c1"].Name != "Ganga" {
		t.Fatalf("unexpected decode result: %+v", cows)
	}
}

func TestEmptySubtreeDecodesAsEmptyMap(t *testing.T) {
	t.Parallel()

	// The store returns the JSON literal null for an absent path.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`null`))
	})

	expenses, err := client.Expenses(context.Background(), "P1")
	if err != nil {
		t.Fatalf("expenses: %v", err)
	}
	if expenses == nil || len(expenses) != 0 {
		t.Fatalf("want empty non-nil map, got %#v", expenses)
	}
}

func TestReadErrorSurfacesStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.HealthReports(context.Background()); err == nil {
		t.Fatal("want error on 5xx response")
	}
}

func TestSaveHealthReportWritesDocument(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	var gotBody models.HealthReport
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	report := models.HealthReport{HealthStatus: "Sick", IllnessType: "Fever", TreatmentCost: "120"}
	if err := client.SaveHealthReport(context.Background(), "c1", "2024-01-05", report); err != nil {
		t.Fatalf("save: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Fatalf("want PUT (overwrite in place), got %s", gotMethod)
	}
	if gotPath != "/healthReports/c1/2024-01-05.json" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody.HealthStatus != "Sick" || gotBody.TreatmentCost != "120" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestSaveValidation(t *testing.T) {
	t.Parallel()

	client := NewClient(config.StoreConfig{BaseURL: "http://127.0.0.1:0", FetchTimeout: time.Second}, nil)

	if err := client.SaveCow(context.Background(), models.Cow{}); err == nil {
		t.Fatal("want error for cow without uniqueId")
	}
	if err := client.SaveExpense(context.Background(), "", "2024-01-01", models.ExpenseRecord{}); err == nil {
		t.Fatal("want error for empty owner")
	}
}
