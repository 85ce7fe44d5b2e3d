package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/repository/docstore"
)

// RecordsHandler handles the record save endpoints. Records are keyed by
// (entity, dateKey) and overwritten in place on re-save; nothing is ever
// deleted.
type RecordsHandler struct {
	store  docstore.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRecordsHandler constructs the record write adapter.
func NewRecordsHandler(store docstore.Repository, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{store: store, logger: logger, now: time.Now}
}

type createCowRequest struct {
	Name  string `json:"name" binding:"required"`
	Breed string `json:"breed" binding:"required"`
	DOB   string `json:"dob"`
	Owner string `json:"owner" binding:"required"`
}

// CreateCow registers a new cow with an app-generated uniqueId.
func (h *RecordsHandler) CreateCow(c *gin.Context) {
	var req createCowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cow payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	now := h.now()
	cow := models.Cow{
		// Same key scheme the mobile clients use: millis timestamp plus a
		// random suffix.
		UniqueID:        fmt.Sprintf("%d%04d", now.UnixMilli(), rand.Intn(10000)),
		Name:            req.Name,
		Breed:           req.Breed,
		DOB:             req.DOB,
		UserPhoneNumber: req.Owner,
		CreatedAt:       now.Format(time.RFC3339),
	}

	if err := h.store.SaveCow(c.Request.Context(), cow); err != nil {
		h.logger.Error("failed saving cow", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save cow"})
		return
	}

	c.JSON(http.StatusCreated, cow)
}

// SaveHealthReport overwrites one cow's health report for a day.
func (h *RecordsHandler) SaveHealthReport(c *gin.Context) {
	cowID := c.Param("cowId")
	dateKey, ok := h.dateKeyParam(c)
	if !ok {
		return
	}

	var report models.HealthReport
	if err := c.ShouldBindJSON(&report); err != nil {
		h.logger.Warn("invalid health payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.store.SaveHealthReport(c.Request.Context(), cowID, dateKey, report); err != nil {
		h.logger.Error("failed saving health report", zap.Error(err), zap.String("cow_id", cowID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save health report"})
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveMilkRecord overwrites one cow's milk record for a day.
func (h *RecordsHandler) SaveMilkRecord(c *gin.Context) {
	cowID := c.Param("cowId")
	dateKey, ok := h.dateKeyParam(c)
	if !ok {
		return
	}

	var record models.MilkProductionRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		h.logger.Warn("invalid milk payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.store.SaveMilkRecord(c.Request.Context(), cowID, dateKey, record); err != nil {
		h.logger.Error("failed saving milk record", zap.Error(err), zap.String("cow_id", cowID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save milk record"})
		return
	}

	c.Status(http.StatusNoContent)
}

type saveExpenseRequest struct {
	Owner string `json:"owner" binding:"required"`
	models.ExpenseRecord
}

// SaveExpense overwrites the owner's expense record for a day.
func (h *RecordsHandler) SaveExpense(c *gin.Context) {
	dateKey, ok := h.dateKeyParam(c)
	if !ok {
		return
	}

	var req saveExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid expense payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.store.SaveExpense(c.Request.Context(), req.Owner, dateKey, req.ExpenseRecord); err != nil {
		h.logger.Error("failed saving expense", zap.Error(err), zap.String("owner", req.Owner))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save expense"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecordsHandler) dateKeyParam(c *gin.Context) (string, bool) {
	dateKey := c.Param("date")
	if _, err := time.Parse(models.DateKeyLayout, dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return "", false
	}
	return dateKey, true
}
