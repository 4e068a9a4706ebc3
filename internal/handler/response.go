package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// actorKey is the gin context key the auth middleware stores the principal
// under.
const actorKey = "actor"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// currentActor returns the authenticated principal set by the auth middleware.
func currentActor(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{}
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidVehicle),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidTripStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrVehicleUnavailable),
		errors.Is(err, service.ErrVehicleHasNoDriver),
		errors.Is(err, service.ErrVehicleAlreadyBooked),
		errors.Is(err, service.ErrBookingInProgress),
		errors.Is(err, service.ErrDriverAlreadyRegistered),
		errors.Is(err, service.ErrVehicleHasDriver),
		errors.Is(err, service.ErrTripInProgress),
		errors.Is(err, service.ErrDriverHasActiveTrip),
		errors.Is(err, service.ErrBookingHasTrip),
		errors.Is(err, service.ErrDriverNotRegistered),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRegistrationTaken),
		errors.Is(err, service.ErrBookingAlreadyCancelled),
		errors.Is(err, service.ErrBookingCompleted),
		errors.Is(err, service.ErrBookingNotActionable),
		errors.Is(err, service.ErrTripAlreadyCompleted),
		errors.Is(err, service.ErrTripCancelled),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStatusChangeNotAllowed):
		return http.StatusConflict

	// Forbidden errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
