// internal/handlers/analytics.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/analytics"
)

// AnalyticsProvider is the service surface the handlers call. Patient and
// medication ids arriving here are already authorized upstream.
type AnalyticsProvider interface {
	Correlation(ctx context.Context, patientID, medicationID uuid.UUID, w analytics.Window) (*analytics.CorrelationResult, error)
	CorrelationBatch(ctx context.Context, patientID uuid.UUID, w analytics.Window) ([]analytics.CorrelationResult, error)
	Timeline(ctx context.Context, patientID uuid.UUID, w analytics.Window) (analytics.Timeline, error)
	Dashboard(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*analytics.DashboardSummary, error)
	Impact(ctx context.Context, patientID, medicationID uuid.UUID, windowStart, windowEnd time.Time) (*analytics.ImpactAnalysis, error)
}

type AnalyticsHandler struct {
	log     *zap.Logger
	service AnalyticsProvider
}

func NewAnalyticsHandler(log *zap.Logger, service AnalyticsProvider) *AnalyticsHandler {
	return &AnalyticsHandler{log: log, service: service}
}

type correlationResponse struct {
	analytics.CorrelationResult
	RiskLevel analytics.RiskLevel `json:"riskLevel"`
}

type dashboardResponse struct {
	analytics.DashboardSummary
	AverageEventsPerDay         float64 `json:"averageEventsPerDay"`
	AverageDosagesPerDay        float64 `json:"averageDosagesPerDay"`
	HasIncreasedRecentActivity  bool    `json:"hasIncreasedRecentActivity"`
	MostCommonEventCategory     string  `json:"mostCommonEventCategory"`
	MostCommonEventSeverity     string  `json:"mostCommonEventSeverity"`
	HighSeverityEventPercentage float64 `json:"highSeverityEventPercentage"`
}

type impactResponse struct {
	analytics.ImpactAnalysis
	EffectivenessRating analytics.EffectivenessRating `json:"effectivenessRating"`
}

type timelineResponse struct {
	Points     analytics.Timeline `json:"points"`
	PeriodDays int                `json:"periodDays,omitempty"`
}

// Correlation serves GET /api/patients/:id/medications/:medID/correlation.
func (h *AnalyticsHandler) Correlation(c *gin.Context) {
	patientID, medicationID, ok := h.recordIDs(c)
	if !ok {
		return
	}
	window, ok := h.window(c)
	if !ok {
		return
	}

	result, err := h.service.Correlation(c.Request.Context(), patientID, medicationID, window)
	if err != nil {
		h.fail(c, "correlation analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, correlationResponse{CorrelationResult: *result, RiskLevel: result.RiskLevel()})
}

// CorrelationBatch serves GET /api/patients/:id/correlations.
func (h *AnalyticsHandler) CorrelationBatch(c *gin.Context) {
	patientID, ok := h.patientID(c)
	if !ok {
		return
	}
	window, ok := h.window(c)
	if !ok {
		return
	}

	results, err := h.service.CorrelationBatch(c.Request.Context(), patientID, window)
	if err != nil {
		h.fail(c, "correlation batch failed", err)
		return
	}
	responses := make([]correlationResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, correlationResponse{CorrelationResult: r, RiskLevel: r.RiskLevel()})
	}
	c.JSON(http.StatusOK, gin.H{"correlations": responses})
}

// Timeline serves GET /api/patients/:id/timeline.
func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	patientID, ok := h.patientID(c)
	if !ok {
		return
	}
	window, ok := h.window(c)
	if !ok {
		return
	}

	points, err := h.service.Timeline(c.Request.Context(), patientID, window)
	if err != nil {
		h.fail(c, "timeline build failed", err)
		return
	}
	resp := timelineResponse{Points: points}
	if window.Start != nil && window.End != nil {
		resp.PeriodDays = analytics.PeriodDays(*window.Start, *window.End)
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard serves GET /api/patients/:id/dashboard.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	patientID, ok := h.patientID(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be RFC3339"})
			return
		}
		asOf = parsed
	}

	summary, err := h.service.Dashboard(c.Request.Context(), patientID, asOf)
	if err != nil {
		h.fail(c, "dashboard aggregation failed", err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		DashboardSummary:            *summary,
		AverageEventsPerDay:         summary.AverageEventsPerDay(),
		AverageDosagesPerDay:        summary.AverageDosagesPerDay(),
		HasIncreasedRecentActivity:  summary.HasIncreasedRecentActivity(),
		MostCommonEventCategory:     string(summary.MostCommonEventCategory()),
		MostCommonEventSeverity:     string(summary.MostCommonEventSeverity()),
		HighSeverityEventPercentage: summary.HighSeverityEventPercentage(),
	})
}

// Impact serves GET /api/patients/:id/medications/:medID/impact. Both window
// bounds are required here: the half-window split needs a bounded period.
func (h *AnalyticsHandler) Impact(c *gin.Context) {
	patientID, medicationID, ok := h.recordIDs(c)
	if !ok {
		return
	}
	window, ok := h.window(c)
	if !ok {
		return
	}
	if window.Start == nil || window.End == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "impact analysis requires start and end"})
		return
	}

	result, err := h.service.Impact(c.Request.Context(), patientID, medicationID, *window.Start, *window.End)
	if err != nil {
		h.fail(c, "impact analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, impactResponse{ImpactAnalysis: *result, EffectivenessRating: result.EffectivenessRating()})
}

func (h *AnalyticsHandler) patientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patient id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *AnalyticsHandler) recordIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	patientID, ok := h.patientID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	medicationID, err := uuid.Parse(c.Param("medID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "medication id must be a UUID"})
		return uuid.Nil, uuid.Nil, false
	}
	return patientID, medicationID, true
}

// window parses the optional start/end query parameters, both RFC3339.
func (h *AnalyticsHandler) window(c *gin.Context) (analytics.Window, bool) {
	var w analytics.Window
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
			return w, false
		}
		w.Start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339"})
			return w, false
		}
		w.End = &t
	}
	if err := w.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be after end"})
		return w, false
	}
	return w, true
}

func (h *AnalyticsHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, analytics.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be after end"})
		return
	}
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
}
