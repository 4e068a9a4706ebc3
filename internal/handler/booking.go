package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService      *service.BookingService
	availabilityService *service.AvailabilityService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, availabilityService *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		availabilityService: availabilityService,
	}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	VehicleID string    `json:"vehicle_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	VehicleID  string  `json:"vehicle_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalCost  float64 `json:"total_cost"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// ListBookingsResponse is the HTTP response for booking listings.
type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
}

// AvailabilityResponse is the HTTP response for an availability check.
type AvailabilityResponse struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

func newBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		VehicleID:  b.VehicleID,
		StartDate:  b.StartDate.Format(time.RFC3339),
		EndDate:    b.EndDate.Format(time.RFC3339),
		TotalCost:  b.TotalCost,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		VehicleID: req.VehicleID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Customer:  currentActor(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newBookingResponse(booking))
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newBookingResponse(booking))
}

// ListBookings handles GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := repository.BookingFilter{
		VehicleID:    c.Query("vehicle_id"),
		Status:       domain.BookingStatus(c.Query("status")),
		Registration: c.Query("registration"),
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 20),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from date"})
			return
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to date"})
			return
		}
		filter.To = t
	}

	result, err := h.bookingService.ListBookings(c.Request.Context(), currentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ListBookingsResponse{
		Bookings: make([]BookingResponse, 0, len(result.Bookings)),
		Total:    result.Total,
	}
	for _, b := range result.Bookings {
		resp.Bookings = append(resp.Bookings, newBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, resp)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newBookingResponse(booking))
}

// CheckAvailability handles GET /api/v1/vehicles/:id/availability
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start date"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end date"})
		return
	}

	vehicleID := c.Param("id")
	conflict, err := h.availabilityService.HasConflict(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AvailabilityResponse{
		VehicleID: vehicleID,
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
		Available: !conflict,
	})
}
