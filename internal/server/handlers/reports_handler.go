package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/export"
	"github.com/SameetPathan/cowfarm/internal/service/aggregation"
	"github.com/SameetPathan/cowfarm/internal/service/reporting"
)

// ReportService is the slice of the reporting service the HTTP layer needs.
type ReportService interface {
	Dashboard(ctx context.Context, owner string, window *aggregation.DateRange) (reporting.DisplaySummary, error)
	MonthlyIncome(ctx context.Context, owner string) (models.IncomeRollup, error)
}

// ReportsHandler serves the aggregated dashboard, income rollup and PDF export.
type ReportsHandler struct {
	svc    ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewReportsHandler constructs the report read adapter.
func NewReportsHandler(svc ReportService, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger, now: time.Now}
}

// Dashboard returns the display summary for an owner. An optional
// from/to pair (YYYY-MM-DD, inclusive) windows the aggregation; the
// default is all-time.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}

	window, ok := h.windowParams(c)
	if !ok {
		return
	}

	summary, err := h.svc.Dashboard(c.Request.Context(), owner, window)
	if err != nil {
		h.logger.Error("failed building dashboard", zap.Error(err), zap.String("owner", owner))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load farm data"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// MonthlyIncome returns the month-to-date net income rollup.
func (h *ReportsHandler) MonthlyIncome(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}

	rollup, err := h.svc.MonthlyIncome(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed building income rollup", zap.Error(err), zap.String("owner", owner))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load farm data"})
		return
	}

	c.JSON(http.StatusOK, rollup)
}

// Export renders the full report as a downloadable PDF.
func (h *ReportsHandler) Export(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	summary, err := h.svc.Dashboard(ctx, owner, nil)
	if err != nil {
		h.logger.Error("failed building export summary", zap.Error(err), zap.String("owner", owner))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load farm data"})
		return
	}

	rollup, err := h.svc.MonthlyIncome(ctx, owner)
	if err != nil {
		h.logger.Error("failed building export rollup", zap.Error(err), zap.String("owner", owner))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load farm data"})
		return
	}

	now := h.now()
	pdfBytes, err := export.FarmReportPDF(owner, summary, &rollup, now)
	if err != nil {
		h.logger.Error("failed rendering pdf", zap.Error(err), zap.String("owner", owner))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render report"})
		return
	}

	filename := fmt.Sprintf("farm-report-%s.pdf", now.Format(models.DateKeyLayout))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *ReportsHandler) windowParams(c *gin.Context) (*aggregation.DateRange, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" && to == "" {
		return nil, true
	}

	for _, key := range []string{from, to} {
		if key == "" {
			continue
		}
		if _, err := time.Parse(models.DateKeyLayout, key); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
			return nil, false
		}
	}

	if from != "" && to != "" && from > to {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must not be after to"})
		return nil, false
	}

	return &aggregation.DateRange{From: from, To: to}, true
}

func ownerParam(c *gin.Context) (string, bool) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query parameter is required"})
		return "", false
	}
	return owner, true
}
