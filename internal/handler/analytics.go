package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/service"
)

// AnalyticsHandler handles HTTP requests for the admin dashboard.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// DashboardResponse is the HTTP response for the dashboard aggregates.
type DashboardResponse struct {
	TotalRevenue    float64 `json:"total_revenue"`
	ActiveTrips     int64   `json:"active_trips"`
	TotalBookings   int64   `json:"total_bookings"`
	CompletedTrips  int64   `json:"completed_trips"`
	TotalVehicles   int64   `json:"total_vehicles"`
	ActiveVehicles  int64   `json:"active_vehicles"`
	UtilizationRate float64 `json:"utilization_rate"`
}

// Dashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DashboardResponse{
		TotalRevenue:    stats.TotalRevenue,
		ActiveTrips:     stats.ActiveTrips,
		TotalBookings:   stats.TotalBookings,
		CompletedTrips:  stats.CompletedTrips,
		TotalVehicles:   stats.VehicleUtilization.TotalVehicles,
		ActiveVehicles:  stats.VehicleUtilization.ActiveVehicles,
		UtilizationRate: stats.VehicleUtilization.UtilizationRate,
	})
}
