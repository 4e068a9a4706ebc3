package repository

import (
	"context"

	"fleet/internal/domain"
)

// TripFilter narrows trip listings. Zero values mean "no constraint".
type TripFilter struct {
	DriverID  string
	VehicleID string
	Status    domain.TripStatus
	Page      int
	Limit     int
}

// TripRepository defines the persistence operations for trips.
// Reads exclude soft-deleted rows unless stated otherwise.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByIDAny retrieves a trip by ID including soft-deleted rows, so
	// callers can distinguish "cancelled" from "never existed".
	GetByIDAny(ctx context.Context, id string) (*domain.Trip, error)

	// GetByBookingID retrieves the non-deleted trip for a booking.
	// Returns nil if none exists.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Trip, error)

	// GetActiveByDriverID retrieves a trip in ASSIGNED or STARTED state for
	// the driver. Returns nil if no active trip exists.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error)

	// List retrieves trips matching the filter together with the total
	// matching count for pagination.
	List(ctx context.Context, filter TripFilter) ([]*domain.Trip, int64, error)

	// Update updates an existing trip, including the soft-delete flags.
	Update(ctx context.Context, trip *domain.Trip) error
}
