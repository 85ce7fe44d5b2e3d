package docstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/config"
	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

// Repository defines the document store operations used by the application.
// The store is path-addressed: a read returns the entire subtree at a path
// and a write overwrites the document in place (last write wins).
type Repository interface {
	Cows(ctx context.Context) (map[string]models.Cow, error)
	HealthReports(ctx context.Context) (map[string]map[string]models.HealthReport, error)
	MilkProduction(ctx context.Context) (map[string]map[string]models.MilkProductionRecord, error)
	Expenses(ctx context.Context, owner string) (map[string]models.ExpenseRecord, error)

	SaveCow(ctx context.Context, cow models.Cow) error
	SaveHealthReport(ctx context.Context, cowID, dateKey string, report models.HealthReport) error
	SaveMilkRecord(ctx context.Context, cowID, dateKey string, record models.MilkProductionRecord) error
	SaveExpense(ctx context.Context, owner, dateKey string, record models.ExpenseRecord) error
}

// Client is a resty-backed implementation of Repository against the store's
// REST surface.
type Client struct {
	httpClient *resty.Client
	authToken  string
	logger     *zap.Logger
}

// NewClient builds a document store client from configuration.
func NewClient(cfg config.StoreConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.FetchTimeout)

	return &Client{
		httpClient: restyClient,
		authToken:  cfg.AuthToken,
		logger:     logger,
	}
}

// Cows reads the full cow registry.
func (c *Client) Cows(ctx context.Context) (map[string]models.Cow, error) {
	out := map[string]models.Cow{}
	if err := c.getSubtree(ctx, "cows", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]models.Cow{}
	}
	return out, nil
}

// HealthReports reads the whole health collection across every cow. The
// store offers no server-side filtering on these paths, so ownership
// scoping happens client-side after the fetch.
func (c *Client) HealthReports(ctx context.Context) (map[string]map[string]models.HealthReport, error) {
	out := map[string]map[string]models.HealthReport{}
	if err := c.getSubtree(ctx, "healthReports", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]map[string]models.HealthReport{}
	}
	return out, nil
}

// MilkProduction reads the whole milk collection across every cow.
func (c *Client) MilkProduction(ctx context.Context) (map[string]map[string]models.MilkProductionRecord, error) {
	out := map[string]map[string]models.MilkProductionRecord{}
	if err := c.getSubtree(ctx, "milkProduction", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]map[string]models.MilkProductionRecord{}
	}
	return out, nil
}

// Expenses reads one owner's expense subtree; the path itself scopes the data.
func (c *Client) Expenses(ctx context.Context, owner string) (map[string]models.ExpenseRecord, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner must not be empty")
	}
	out := map[string]models.ExpenseRecord{}
	if err := c.getSubtree(ctx, "expenses/"+owner, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]models.ExpenseRecord{}
	}
	return out, nil
}

// SaveCow writes a cow registration document.
func (c *Client) SaveCow(ctx context.Context, cow models.Cow) error {
	if cow.UniqueID == "" {
		return fmt.Errorf("cow uniqueId must not be empty")
	}
	return c.putDocument(ctx, "cows/"+cow.UniqueID, cow)
}

// SaveHealthReport overwrites the health report for one cow and day.
func (c *Client) SaveHealthReport(ctx context.Context, cowID, dateKey string, report models.HealthReport) error {
	if cowID == "" || dateKey == "" {
		return fmt.Errorf("cowID and dateKey must not be empty")
	}
	return c.putDocument(ctx, fmt.Sprintf("healthReports/%s/%s", cowID, dateKey), report)
}

// SaveMilkRecord overwrites the milk record for one cow and day.
func (c *Client) SaveMilkRecord(ctx context.Context, cowID, dateKey string, record models.MilkProductionRecord) error {
	if cowID == "" || dateKey == "" {
		return fmt.Errorf("cowID and dateKey must not be empty")
	}
	return c.putDocument(ctx, fmt.Sprintf("milkProduction/%s/%s", cowID, dateKey), record)
}

// SaveExpense overwrites the owner's expense record for one day.
func (c *Client) SaveExpense(ctx context.Context, owner, dateKey string, record models.ExpenseRecord) error {
	if owner == "" || dateKey == "" {
		return fmt.Errorf("owner and dateKey must not be empty")
	}
	return c.putDocument(ctx, fmt.Sprintf("expenses/%s/%s", owner, dateKey), record)
}

func (c *Client) getSubtree(ctx context.Context, path string, out interface{}) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(out)
	if c.authToken != "" {
		req.SetQueryParam("auth", c.authToken)
	}

	resp, err := req.Get("/" + path + ".json")
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("read %s: store returned status %d", path, resp.StatusCode())
	}

	c.logger.Debug("subtree fetched", zap.String("path", path), zap.Int("bytes", len(resp.Body())))
	return nil
}

func (c *Client) putDocument(ctx context.Context, path string, doc interface{}) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(doc)
	if c.authToken != "" {
		req.SetQueryParam("auth", c.authToken)
	}

	resp, err := req.Put("/" + path + ".json")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("write %s: store returned status %d", path, resp.StatusCode())
	}

	c.logger.Debug("document written", zap.String("path", path))
	return nil
}
