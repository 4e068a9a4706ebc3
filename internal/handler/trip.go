package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	BookingID string `json:"booking_id"`
}

// UpdateTripStatusRequest is the HTTP request body for a trip transition.
type UpdateTripStatusRequest struct {
	Status string `json:"status"` // STARTED or COMPLETED
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	DriverID      string `json:"driver_id"`
	VehicleID     string `json:"vehicle_id"`
	Status        string `json:"status"`
	StartOdometer int64  `json:"start_odometer,omitempty"`
	EndOdometer   int64  `json:"end_odometer,omitempty"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ListTripsResponse is the HTTP response for trip listings.
type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
	Total int64          `json:"total"`
}

func newTripResponse(t *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:            t.ID,
		BookingID:     t.BookingID,
		DriverID:      t.DriverID,
		VehicleID:     t.VehicleID,
		Status:        string(t.Status),
		StartOdometer: t.StartOdometer,
		EndOdometer:   t.EndOdometer,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if !t.StartTime.IsZero() {
		resp.StartTime = t.StartTime.Format(time.RFC3339)
	}
	if !t.EndTime.IsZero() {
		resp.EndTime = t.EndTime.Format(time.RFC3339)
	}
	return resp
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), req.BookingID, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newTripResponse(trip))
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTripResponse(trip))
}

// ListTrips handles GET /api/v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := repository.TripFilter{
		VehicleID: c.Query("vehicle_id"),
		Status:    domain.TripStatus(c.Query("status")),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 20),
	}

	result, err := h.tripService.ListTrips(c.Request.Context(), currentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ListTripsResponse{
		Trips: make([]TripResponse, 0, len(result.Trips)),
		Total: result.Total,
	}
	for _, t := range result.Trips {
		resp.Trips = append(resp.Trips, newTripResponse(t))
	}
	respondJSON(c, http.StatusOK, resp)
}

// UpdateTripStatus handles PATCH /api/v1/trips/:id/status
func (h *TripHandler) UpdateTripStatus(c *gin.Context) {
	var req UpdateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.UpdateTripStatus(c.Request.Context(), c.Param("id"), domain.TripStatus(req.Status), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTripResponse(trip))
}

// CancelTrip handles POST /api/v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	if err := h.tripService.CancelTrip(c.Request.Context(), c.Param("id"), currentActor(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
