package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// DriverHandler handles HTTP requests for driver accounts and the
// driver-vehicle registration.
type DriverHandler struct {
	driverService     *service.DriverService
	assignmentService *service.AssignmentService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, assignmentService *service.AssignmentService) *DriverHandler {
	return &DriverHandler{
		driverService:     driverService,
		assignmentService: assignmentService,
	}
}

// CreateDriverRequest is the HTTP request body for creating a driver.
type CreateDriverRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterVehicleRequest is the HTTP request body for registering to a vehicle.
type RegisterVehicleRequest struct {
	VehicleID string `json:"vehicle_id"`
}

// DriverResponse is the HTTP representation of a driver account.
type DriverResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ListDriversResponse is the HTTP response for driver listings.
type ListDriversResponse struct {
	Drivers []DriverResponse `json:"drivers"`
	Total   int64            `json:"total"`
}

func newDriverResponse(u *domain.User) DriverResponse {
	return DriverResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// CreateDriver handles POST /api/v1/drivers
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.CreateDriver(c.Request.Context(), service.CreateDriverRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newDriverResponse(driver))
}

// GetDriver handles GET /api/v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newDriverResponse(driver))
}

// ListDrivers handles GET /api/v1/drivers
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	filter := repository.UserFilter{
		Email: c.Query("email"),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}

	result, err := h.driverService.ListDrivers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ListDriversResponse{
		Drivers: make([]DriverResponse, 0, len(result.Drivers)),
		Total:   result.Total,
	}
	for _, d := range result.Drivers {
		resp.Drivers = append(resp.Drivers, newDriverResponse(d))
	}
	respondJSON(c, http.StatusOK, resp)
}

// DeleteDriver handles DELETE /api/v1/drivers/:id
func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	if err := h.driverService.DeleteDriver(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterVehicle handles POST /api/v1/drivers/me/vehicle
func (h *DriverHandler) RegisterVehicle(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.assignmentService.Register(c.Request.Context(), currentActor(c).ID, req.VehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newVehicleResponse(vehicle))
}

// ReturnVehicle handles DELETE /api/v1/drivers/me/vehicle
func (h *DriverHandler) ReturnVehicle(c *gin.Context) {
	vehicle, err := h.assignmentService.Return(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newVehicleResponse(vehicle))
}

// GetRegisteredVehicle handles GET /api/v1/drivers/me/vehicle
func (h *DriverHandler) GetRegisteredVehicle(c *gin.Context) {
	vehicle, err := h.assignmentService.Registered(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newVehicleResponse(vehicle))
}
