package repository

import (
	"context"
	"time"

	"fleet/internal/domain"
)

// BookingFilter narrows booking listings. Zero values mean "no constraint".
type BookingFilter struct {
	VehicleID    string
	CustomerID   string
	OwnerID      string // bookings for vehicles owned by this user
	Status       domain.BookingStatus
	From         time.Time
	To           time.Time
	Registration string // vehicle registration number substring
	Page         int
	Limit        int
}

// BookingRepository defines the persistence operations for bookings.
// Reads exclude soft-deleted rows.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// List retrieves bookings matching the filter together with the total
	// matching count for pagination.
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, int64, error)

	// Update updates an existing booking, including the soft-delete flags.
	Update(ctx context.Context, booking *domain.Booking) error

	// FindConflicting returns a booking for the vehicle whose [start, end)
	// interval intersects the given one and whose status is not in
	// excludeStatuses. Returns nil when no such booking exists.
	FindConflicting(ctx context.Context, vehicleID string, start, end time.Time, excludeStatuses []domain.BookingStatus) (*domain.Booking, error)
}
