package service

import (
	"context"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// AssignmentService manages the driver-vehicle registration: a driver holds
// at most one vehicle and a vehicle carries at most one driver.
type AssignmentService struct {
	store repository.Store
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(store repository.Store) *AssignmentService {
	return &AssignmentService{store: store}
}

// Register registers the driver to a vehicle. The driver must not already
// hold a vehicle, and the vehicle must be IDLE without a driver.
func (s *AssignmentService) Register(ctx context.Context, driverID, vehicleID string) (*domain.Vehicle, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	var vehicle *domain.Vehicle
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		held, err := tx.Vehicles().GetByDriverID(ctx, driverID)
		if err != nil {
			return err
		}
		if held != nil {
			return ErrDriverAlreadyRegistered
		}

		vehicle, err = tx.Vehicles().GetByID(ctx, vehicleID)
		if err != nil {
			return err
		}
		if vehicle.DriverID != "" {
			return ErrVehicleHasDriver
		}
		if vehicle.Status != domain.VehicleStatusIdle {
			return ErrVehicleUnavailable
		}

		vehicle.DriverID = driverID
		return tx.Vehicles().Update(ctx, vehicle)
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Return releases the driver's vehicle. A driver with an active trip keeps
// the vehicle until the trip finishes.
func (s *AssignmentService) Return(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	var vehicle *domain.Vehicle
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		vehicle, err = tx.Vehicles().GetByDriverID(ctx, driverID)
		if err != nil {
			return err
		}
		if vehicle == nil {
			return ErrDriverNotRegistered
		}

		trip, err := tx.Trips().GetActiveByDriverID(ctx, driverID)
		if err != nil {
			return err
		}
		if trip != nil {
			return ErrTripInProgress
		}

		vehicle.DriverID = ""
		return tx.Vehicles().Update(ctx, vehicle)
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Registered returns the vehicle the driver currently holds, or
// repository.ErrNotFound if none.
func (s *AssignmentService) Registered(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	vehicle, err := s.store.Vehicles().GetByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, repository.ErrNotFound
	}
	return vehicle, nil
}
