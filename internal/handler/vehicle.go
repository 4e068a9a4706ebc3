package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// CreateVehicleRequest is the HTTP request body for registering a vehicle.
type CreateVehicleRequest struct {
	Make               string `json:"make"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registration_number"`
	Type               string `json:"type"` // SEDAN, SUV, TRUCK, VAN
}

// UpdateVehicleRequest is the HTTP request body for updating a vehicle.
type UpdateVehicleRequest struct {
	Make   *string `json:"make,omitempty"`
	Model  *string `json:"model,omitempty"`
	Status *string `json:"status,omitempty"` // IDLE or MAINTENANCE
}

// VehicleResponse is the HTTP representation of a vehicle.
type VehicleResponse struct {
	ID                 string `json:"id"`
	OwnerID            string `json:"owner_id"`
	DriverID           string `json:"driver_id,omitempty"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registration_number"`
	Type               string `json:"type"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

// ListVehiclesResponse is the HTTP response for vehicle listings.
type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
	Total    int64             `json:"total"`
}

func newVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 v.ID,
		OwnerID:            v.OwnerID,
		DriverID:           v.DriverID,
		Make:               v.Make,
		Model:              v.Model,
		RegistrationNumber: v.RegistrationNumber,
		Type:               string(v.Type),
		Status:             string(v.Status),
		CreatedAt:          v.CreatedAt.Format(time.RFC3339),
	}
}

func newListVehiclesResponse(result *service.ListVehiclesResult) ListVehiclesResponse {
	resp := ListVehiclesResponse{
		Vehicles: make([]VehicleResponse, 0, len(result.Vehicles)),
		Total:    result.Total,
	}
	for _, v := range result.Vehicles {
		resp.Vehicles = append(resp.Vehicles, newVehicleResponse(v))
	}
	return resp
}

// CreateVehicle handles POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), service.CreateVehicleRequest{
		Make:               req.Make,
		Model:              req.Model,
		RegistrationNumber: req.RegistrationNumber,
		Type:               domain.VehicleType(req.Type),
		Owner:              currentActor(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newVehicleResponse(vehicle))
}

// GetVehicle handles GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newVehicleResponse(vehicle))
}

// ListVehicles handles GET /api/v1/vehicles
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	filter := repository.VehicleFilter{
		Status: domain.VehicleStatus(c.Query("status")),
		Type:   domain.VehicleType(c.Query("type")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}

	result, err := h.vehicleService.ListVehicles(c.Request.Context(), currentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newListVehiclesResponse(result))
}

// ListAvailableVehicles handles GET /api/v1/vehicles/available
func (h *VehicleHandler) ListAvailableVehicles(c *gin.Context) {
	filter := repository.VehicleFilter{
		Type:  domain.VehicleType(c.Query("type")),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}

	result, err := h.vehicleService.ListAvailable(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newListVehiclesResponse(result))
}

// UpdateVehicle handles PATCH /api/v1/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	update := service.UpdateVehicleRequest{
		Make:  req.Make,
		Model: req.Model,
	}
	if req.Status != nil {
		status := domain.VehicleStatus(*req.Status)
		update.Status = &status
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), c.Param("id"), update, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newVehicleResponse(vehicle))
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), c.Param("id"), currentActor(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
