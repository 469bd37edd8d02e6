package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/ammerola/pharmapos-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// DashboardHandler serves the pharmacy dashboard and profit reporting
type DashboardHandler struct {
	reporting ports.ReportingService
	cache     ports.CacheRepository
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reporting ports.ReportingService, cache ports.CacheRepository, cacheTTL time.Duration, logger *slog.Logger) *DashboardHandler {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardHandler{
		reporting: reporting,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var metrics ports.DashboardMetrics

	err := h.cache.GetOrSet(ctx, cacheKey, &metrics, func() (interface{}, error) {
		return h.reporting.Dashboard(ctx, time.Now())
	}, h.cacheTTL)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, metrics)
}

// GetWeeklyProfit handles GET /api/v1/dashboard/weekly-profit
func (h *DashboardHandler) GetWeeklyProfit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixReport, "weekly-profit")
	var series []ports.DailyProfit

	err := h.cache.GetOrSet(ctx, cacheKey, &series, func() (interface{}, error) {
		return h.reporting.WeeklyProfit(ctx, time.Now())
	}, h.cacheTTL)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load weekly profit",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load weekly profit")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"days": series,
	})
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
