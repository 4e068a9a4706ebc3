package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", ""))

	svc := service.NewAssignmentService(store)

	vehicle, err := svc.Register(context.Background(), "driver-1", "veh-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.DriverID != "driver-1" {
		t.Errorf("expected driver-1 on the vehicle, got %q", vehicle.DriverID)
	}
}

func TestRegister_DriverAlreadyHoldsVehicle(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-2", "owner-1", ""))

	svc := service.NewAssignmentService(store)

	_, err := svc.Register(context.Background(), "driver-1", "veh-2")
	if !errors.Is(err, service.ErrDriverAlreadyRegistered) {
		t.Fatalf("expected ErrDriverAlreadyRegistered, got %v", err)
	}
}

func TestRegister_VehicleAlreadyHasDriver(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))

	svc := service.NewAssignmentService(store)

	// One vehicle never carries two drivers.
	_, err := svc.Register(context.Background(), "driver-2", "veh-1")
	if !errors.Is(err, service.ErrVehicleHasDriver) {
		t.Fatalf("expected ErrVehicleHasDriver, got %v", err)
	}

	if got := store.VehicleRepo.GetVehicle("veh-1").DriverID; got != "driver-1" {
		t.Errorf("vehicle driver should stay driver-1, got %q", got)
	}
}

func TestRegister_VehicleNotIdle(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	vehicle := newBookableVehicle("veh-1", "owner-1", "")
	vehicle.Status = domain.VehicleStatusMaintenance
	store.VehicleRepo.AddVehicle(vehicle)

	svc := service.NewAssignmentService(store)

	_, err := svc.Register(context.Background(), "driver-1", "veh-1")
	if !errors.Is(err, service.ErrVehicleUnavailable) {
		t.Fatalf("expected ErrVehicleUnavailable, got %v", err)
	}
}

func TestReturn_Success(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))

	svc := service.NewAssignmentService(store)

	vehicle, err := svc.Return(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.DriverID != "" {
		t.Errorf("expected vehicle to be driverless, got %q", vehicle.DriverID)
	}
}

func TestReturn_BlockedByActiveTrip(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.TripRepo.AddTrip(&domain.Trip{
		ID:        "trip-1",
		BookingID: "bk-1",
		DriverID:  "driver-1",
		VehicleID: "veh-1",
		Status:    domain.TripStatusStarted,
	})

	svc := service.NewAssignmentService(store)

	_, err := svc.Return(context.Background(), "driver-1")
	if !errors.Is(err, service.ErrTripInProgress) {
		t.Fatalf("expected ErrTripInProgress, got %v", err)
	}
	if got := store.VehicleRepo.GetVehicle("veh-1").DriverID; got != "driver-1" {
		t.Errorf("vehicle driver should stay driver-1, got %q", got)
	}
}

func TestReturn_NotRegistered(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAssignmentService(store)

	_, err := svc.Return(context.Background(), "driver-1")
	if !errors.Is(err, service.ErrDriverNotRegistered) {
		t.Fatalf("expected ErrDriverNotRegistered, got %v", err)
	}
}

func TestDeleteDriver_ReleasesVehicle(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.UserRepo.AddUser(&domain.User{ID: "driver-1", Email: "d@example.com", Role: domain.RoleDriver})

	svc := service.NewDriverService(store)

	if err := svc.DeleteDriver(context.Background(), "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.VehicleRepo.GetVehicle("veh-1").DriverID; got != "" {
		t.Errorf("expected vehicle to be released, got driver %q", got)
	}
	if !store.UserRepo.GetUser("driver-1").IsDeleted {
		t.Error("expected driver account to be soft-deleted")
	}
}

func TestDeleteDriver_BlockedByActiveTrip(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.UserRepo.AddUser(&domain.User{ID: "driver-1", Email: "d@example.com", Role: domain.RoleDriver})
	store.TripRepo.AddTrip(&domain.Trip{
		ID:        "trip-1",
		BookingID: "bk-1",
		DriverID:  "driver-1",
		VehicleID: "veh-1",
		Status:    domain.TripStatusAssigned,
	})

	svc := service.NewDriverService(store)

	err := svc.DeleteDriver(context.Background(), "driver-1")
	if !errors.Is(err, service.ErrDriverHasActiveTrip) {
		t.Fatalf("expected ErrDriverHasActiveTrip, got %v", err)
	}
}
