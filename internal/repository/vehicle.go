package repository

import (
	"context"

	"fleet/internal/domain"
)

// VehicleFilter narrows vehicle listings. Zero values mean "no constraint".
type VehicleFilter struct {
	OwnerID       string
	Status        domain.VehicleStatus
	Type          domain.VehicleType
	OnlyAvailable bool // IDLE with a registered driver
	Page          int
	Limit         int
}

// VehicleRepository defines the persistence operations for vehicles.
// Reads exclude soft-deleted rows.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByDriverID retrieves the vehicle a driver is registered to.
	// Returns nil if the driver holds no vehicle.
	GetByDriverID(ctx context.Context, driverID string) (*domain.Vehicle, error)

	// List retrieves vehicles matching the filter together with the total
	// matching count for pagination.
	List(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, int64, error)

	// Update updates an existing vehicle, including the soft-delete flags.
	Update(ctx context.Context, vehicle *domain.Vehicle) error
}
