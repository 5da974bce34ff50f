package api

import (
	"net/http"

	"github.com/hivelog/hivelog-api/internal/api/shared"
	"github.com/hivelog/hivelog-api/internal/service"
)

// AnalyticsHandler serves batch metrics and fleet analytics.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	labels    StageLabels
}

// NewAnalyticsHandler creates an AnalyticsHandler. A nil labels map uses
// DefaultStageLabels.
func NewAnalyticsHandler(analytics service.AnalyticsService, labels StageLabels) *AnalyticsHandler {
	if labels == nil {
		labels = DefaultStageLabels()
	}
	return &AnalyticsHandler{analytics: analytics, labels: labels}
}

// BatchMetrics handles GET /api/batches/{id}/metrics. The optional alpha and
// z query parameters override the smoothing constant and z-score.
func (h *AnalyticsHandler) BatchMetrics(w http.ResponseWriter, r *http.Request) {
	userID, batchID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	alpha, err := optionalFloatQuery(r, "alpha")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	z, err := optionalFloatQuery(r, "z")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var override *service.ParamsOverride
	if alpha != nil || z != nil {
		override = &service.ParamsOverride{SmoothingAlpha: alpha, ConfidenceZ: z}
	}

	metrics, err := h.analytics.BatchMetrics(r.Context(), userID, batchID, override)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute batch metrics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, metrics)
}

// FleetAnalytics handles GET /api/analytics/fleet.
func (h *AnalyticsHandler) FleetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	fleet, err := h.analytics.FleetAnalytics(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute fleet analytics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.labels.fleetToResponse(fleet))
}
