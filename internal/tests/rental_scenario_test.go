package tests

import (
	"context"
	"testing"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// TestRentalScenario walks the whole platform flow: an owner registers a
// vehicle, an admin provisions a driver who registers to it, a customer
// books it, and the driver executes the trip to completion.
func TestRentalScenario(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	locks := NewMockLockStore()

	vehicleSvc := service.NewVehicleService(store)
	driverSvc := service.NewDriverService(store)
	assignmentSvc := service.NewAssignmentService(store)
	bookingSvc := service.NewBookingService(store, locks, nil, 100)
	tripSvc := service.NewTripService(store, service.NewStubOdometerReader(), nil)

	ctx := context.Background()

	// Owner registers a vehicle.
	owner := domain.Actor{ID: "owner-1", Role: domain.RoleOwner}
	vehicle, err := vehicleSvc.CreateVehicle(ctx, service.CreateVehicleRequest{
		Make:               "Toyota",
		Model:              "Corolla",
		RegistrationNumber: "FL-0001",
		Type:               domain.VehicleTypeSedan,
		Owner:              owner,
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	// Admin provisions the driver.
	driverAccount, err := driverSvc.CreateDriver(ctx, service.CreateDriverRequest{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}

	// Driver registers to the vehicle.
	if _, err := assignmentSvc.Register(ctx, driverAccount.ID, vehicle.ID); err != nil {
		t.Fatalf("register vehicle: %v", err)
	}

	// Customer books January 10-12.
	store.UserRepo.AddUser(&domain.User{ID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer})
	customer := domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)

	booking, err := bookingSvc.CreateBooking(ctx, service.CreateBookingRequest{
		VehicleID: vehicle.ID,
		StartDate: start,
		EndDate:   end,
		Customer:  customer,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.TotalCost != 200 {
		t.Errorf("expected total cost 200, got %v", booking.TotalCost)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected booking %s, got %s", domain.BookingStatusConfirmed, booking.Status)
	}

	trip, err := store.TripRepo.GetByBookingID(ctx, booking.ID)
	if err != nil || trip == nil {
		t.Fatalf("expected an assigned trip, got %v, %v", trip, err)
	}

	driver := domain.Actor{ID: driverAccount.ID, Role: domain.RoleDriver}

	// Driver cannot return the vehicle mid-rental.
	if _, err := assignmentSvc.Return(ctx, driverAccount.ID); err == nil {
		t.Fatal("expected return to be blocked by the assigned trip")
	}

	// Start the trip.
	trip, err = tripSvc.UpdateTripStatus(ctx, trip.ID, domain.TripStatusStarted, driver)
	if err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if trip.StartOdometer != 1000 {
		t.Errorf("expected start odometer 1000, got %d", trip.StartOdometer)
	}

	// The vehicle cannot be double-booked while in transit.
	if _, err := bookingSvc.CreateBooking(ctx, service.CreateBookingRequest{
		VehicleID: vehicle.ID,
		StartDate: end,
		EndDate:   end.AddDate(0, 0, 2),
		Customer:  customer,
	}); err == nil {
		t.Fatal("expected booking to be rejected while the vehicle is in transit")
	}

	// Complete the trip.
	trip, err = tripSvc.UpdateTripStatus(ctx, trip.ID, domain.TripStatusCompleted, driver)
	if err != nil {
		t.Fatalf("complete trip: %v", err)
	}
	if trip.EndOdometer != 1200 {
		t.Errorf("expected end odometer 1200, got %d", trip.EndOdometer)
	}

	if got := store.BookingRepo.GetBooking(booking.ID).Status; got != domain.BookingStatusCompleted {
		t.Errorf("expected booking %s, got %s", domain.BookingStatusCompleted, got)
	}
	if got := store.VehicleRepo.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusIdle {
		t.Errorf("expected vehicle %s, got %s", domain.VehicleStatusIdle, got)
	}

	// Completed bookings vacate their interval, so rebooking the same
	// dates succeeds.
	if _, err := bookingSvc.CreateBooking(ctx, service.CreateBookingRequest{
		VehicleID: vehicle.ID,
		StartDate: start,
		EndDate:   end,
		Customer:  customer,
	}); err != nil {
		t.Fatalf("rebooking after completion should succeed, got %v", err)
	}

	// And the driver can finally hand the vehicle back.
	trips, _, err := store.TripRepo.List(ctx, repository.TripFilter{DriverID: driverAccount.ID})
	if err != nil {
		t.Fatalf("list trips: %v", err)
	}
	for _, tr := range trips {
		if tr.Active() {
			if err := tripSvc.CancelTrip(ctx, tr.ID, driver); err != nil {
				t.Fatalf("cancel trip: %v", err)
			}
		}
	}
	if _, err := assignmentSvc.Return(ctx, driverAccount.ID); err != nil {
		t.Fatalf("return vehicle: %v", err)
	}
}
