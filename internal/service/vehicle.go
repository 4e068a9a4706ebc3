package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// VehicleService owns the vehicle catalog: registration, owner-scoped
// listing and updates, the maintenance toggle and retirement.
type VehicleService struct {
	store repository.Store
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(store repository.Store) *VehicleService {
	return &VehicleService{store: store}
}

// CreateVehicleRequest contains the parameters for registering a vehicle.
type CreateVehicleRequest struct {
	Make               string
	Model              string
	RegistrationNumber string
	Type               domain.VehicleType
	Owner              domain.Actor
}

// CreateVehicle registers a new vehicle for the owner. New vehicles start
// IDLE without a driver. Registration numbers are unique fleet-wide.
func (s *VehicleService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*domain.Vehicle, error) {
	if req.Make == "" || req.Model == "" || req.RegistrationNumber == "" {
		return nil, ErrInvalidVehicle
	}
	if !domain.ValidVehicleType(req.Type) {
		return nil, ErrInvalidVehicleType
	}

	vehicle := &domain.Vehicle{
		ID:                 uuid.New().String(),
		OwnerID:            req.Owner.ID,
		Make:               req.Make,
		Model:              req.Model,
		RegistrationNumber: req.RegistrationNumber,
		Type:               req.Type,
		Status:             domain.VehicleStatusIdle,
		CreatedAt:          time.Now(),
	}

	if err := s.store.Vehicles().Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRegistrationTaken
		}
		return nil, err
	}
	return vehicle, nil
}

// GetVehicle retrieves a vehicle by ID.
func (s *VehicleService) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	return s.store.Vehicles().GetByID(ctx, vehicleID)
}

// ListVehiclesResult contains one page of vehicles and the total match count.
type ListVehiclesResult struct {
	Vehicles []*domain.Vehicle
	Total    int64
}

// ListVehicles lists vehicles. Owners see only their own fleet; other roles
// see whatever the filter matches.
func (s *VehicleService) ListVehicles(ctx context.Context, actor domain.Actor, filter repository.VehicleFilter) (*ListVehiclesResult, error) {
	if actor.Role == domain.RoleOwner {
		filter.OwnerID = actor.ID
	}

	vehicles, total, err := s.store.Vehicles().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListVehiclesResult{Vehicles: vehicles, Total: total}, nil
}

// ListAvailable lists vehicles a customer can book right now: IDLE with a
// registered driver.
func (s *VehicleService) ListAvailable(ctx context.Context, filter repository.VehicleFilter) (*ListVehiclesResult, error) {
	filter.OnlyAvailable = true

	vehicles, total, err := s.store.Vehicles().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListVehiclesResult{Vehicles: vehicles, Total: total}, nil
}

// UpdateVehicleRequest contains the mutable vehicle fields. Nil pointers
// leave the field unchanged.
type UpdateVehicleRequest struct {
	Make   *string
	Model  *string
	Status *domain.VehicleStatus
}

// UpdateVehicle updates a vehicle owned by the actor (admins may update any).
// Status may only be toggled between IDLE and MAINTENANCE here; the trip
// lifecycle owns IN_TRANSIT.
func (s *VehicleService) UpdateVehicle(ctx context.Context, vehicleID string, req UpdateVehicleRequest, actor domain.Actor) (*domain.Vehicle, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	var vehicle *domain.Vehicle
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		vehicle, err = tx.Vehicles().GetByID(ctx, vehicleID)
		if err != nil {
			return err
		}

		if actor.Role != domain.RoleAdmin && vehicle.OwnerID != actor.ID {
			return ErrForbidden
		}

		if req.Make != nil {
			vehicle.Make = *req.Make
		}
		if req.Model != nil {
			vehicle.Model = *req.Model
		}
		if req.Status != nil && *req.Status != vehicle.Status {
			if err := validateStatusToggle(vehicle.Status, *req.Status); err != nil {
				return err
			}
			vehicle.Status = *req.Status
		}

		return tx.Vehicles().Update(ctx, vehicle)
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle retires a vehicle. Vehicles in transit or with a registered
// driver cannot be retired.
func (s *VehicleService) DeleteVehicle(ctx context.Context, vehicleID string, actor domain.Actor) error {
	if vehicleID == "" {
		return ErrInvalidVehicleID
	}

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		vehicle, err := tx.Vehicles().GetByID(ctx, vehicleID)
		if err != nil {
			return err
		}

		if actor.Role != domain.RoleAdmin && vehicle.OwnerID != actor.ID {
			return ErrForbidden
		}
		if vehicle.Status == domain.VehicleStatusInTransit {
			return ErrTripInProgress
		}
		if vehicle.DriverID != "" {
			return ErrVehicleHasDriver
		}

		vehicle.IsDeleted = true
		vehicle.DeletedAt = time.Now()
		return tx.Vehicles().Update(ctx, vehicle)
	})
}

// validateStatusToggle allows only the owner-facing IDLE <-> MAINTENANCE
// transitions.
func validateStatusToggle(from, to domain.VehicleStatus) error {
	switch {
	case from == domain.VehicleStatusIdle && to == domain.VehicleStatusMaintenance:
		return nil
	case from == domain.VehicleStatusMaintenance && to == domain.VehicleStatusIdle:
		return nil
	}
	return ErrStatusChangeNotAllowed
}
