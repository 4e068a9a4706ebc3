package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

func newBookableVehicle(id, ownerID, driverID string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:                 id,
		OwnerID:            ownerID,
		DriverID:           driverID,
		Make:               "Toyota",
		Model:              "Corolla",
		RegistrationNumber: "REG-" + id,
		Type:               domain.VehicleTypeSedan,
		Status:             domain.VehicleStatusIdle,
		CreatedAt:          time.Now(),
	}
}

func date(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateBooking_Success(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.UserRepo.AddUser(&domain.User{ID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer})

	locks := NewMockLockStore()
	svc := service.NewBookingService(store, locks, nil, 100)

	booking, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(12),
		Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected status %s, got %s", domain.BookingStatusConfirmed, booking.Status)
	}
	if booking.TotalCost != 200 {
		t.Errorf("expected total cost 200, got %v", booking.TotalCost)
	}

	// The trip is created in the same transaction, assigned to the
	// vehicle's registered driver.
	trip, err := store.TripRepo.GetByBookingID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip == nil {
		t.Fatal("expected a trip for the booking")
	}
	if trip.Status != domain.TripStatusAssigned {
		t.Errorf("expected trip status %s, got %s", domain.TripStatusAssigned, trip.Status)
	}
	if trip.DriverID != "driver-1" {
		t.Errorf("expected trip driver driver-1, got %s", trip.DriverID)
	}

	// The lock is released after the booking commits.
	if locks.IsLocked("veh-1") {
		t.Error("expected vehicle lock to be released")
	}
}

func TestCreateBooking_PartialDaysRoundUp(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))

	svc := service.NewBookingService(store, nil, nil, 100)

	// 2.5 days bills as 3 full days.
	start := date(10)
	end := start.Add(60 * time.Hour)

	booking, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: start,
		EndDate:   end,
		Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.TotalCost != 300 {
		t.Errorf("expected total cost 300, got %v", booking.TotalCost)
	}
}

func TestCreateBooking_OverlapRejected(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:        "bk-1",
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(15),
		Status:    domain.BookingStatusConfirmed,
	})

	svc := service.NewBookingService(store, nil, nil, 100)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(12),
		EndDate:   date(14),
		Customer:  domain.Actor{ID: "cust-2", Role: domain.RoleCustomer},
	})
	if !errors.Is(err, service.ErrVehicleAlreadyBooked) {
		t.Fatalf("expected ErrVehicleAlreadyBooked, got %v", err)
	}
}

func TestCreateBooking_TouchingIntervalsAllowed(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:        "bk-1",
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(12),
		Status:    domain.BookingStatusConfirmed,
	})

	svc := service.NewBookingService(store, nil, nil, 100)

	// A booking starting exactly when the previous one ends does not
	// conflict: intervals are half-open.
	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(12),
		EndDate:   date(14),
		Customer:  domain.Actor{ID: "cust-2", Role: domain.RoleCustomer},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateBooking_CancelledBookingVacatesInterval(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:        "bk-1",
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(15),
		Status:    domain.BookingStatusCancelled,
	})

	svc := service.NewBookingService(store, nil, nil, 100)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(12),
		EndDate:   date(14),
		Customer:  domain.Actor{ID: "cust-2", Role: domain.RoleCustomer},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateBooking_VehicleWithoutDriverRejected(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", ""))

	svc := service.NewBookingService(store, nil, nil, 100)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(12),
		Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
	})
	if !errors.Is(err, service.ErrVehicleHasNoDriver) {
		t.Fatalf("expected ErrVehicleHasNoDriver, got %v", err)
	}
}

func TestCreateBooking_VehicleInMaintenanceRejected(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	vehicle := newBookableVehicle("veh-1", "owner-1", "driver-1")
	vehicle.Status = domain.VehicleStatusMaintenance
	store.VehicleRepo.AddVehicle(vehicle)

	svc := service.NewBookingService(store, nil, nil, 100)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(12),
		Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
	})
	if !errors.Is(err, service.ErrVehicleUnavailable) {
		t.Fatalf("expected ErrVehicleUnavailable, got %v", err)
	}
}

func TestCreateBooking_UnknownVehicle(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewBookingService(store, nil, nil, 100)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "missing",
		StartDate: date(10),
		EndDate:   date(12),
		Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewBookingService(store, nil, nil, 100)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"zero start", time.Time{}, date(12)},
		{"zero end", date(10), time.Time{}},
		{"start equals end", date(10), date(10)},
		{"start after end", date(12), date(10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
				VehicleID: "veh-1",
				StartDate: tc.start,
				EndDate:   tc.end,
				Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
			})
			if !errors.Is(err, service.ErrInvalidDateRange) {
				t.Fatalf("expected ErrInvalidDateRange, got %v", err)
			}
		})
	}
}

func TestCreateBooking_LockContention(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))

	locks := NewMockLockStore()
	// Another request already holds the vehicle lock.
	if _, err := locks.AcquireVehicleLock(context.Background(), "veh-1", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := service.NewBookingService(store, locks, nil, 100)

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		VehicleID: "veh-1",
		StartDate: date(10),
		EndDate:   date(12),
		Customer:  domain.Actor{ID: "cust-1", Role: domain.RoleCustomer},
	})
	if !errors.Is(err, service.ErrBookingInProgress) {
		t.Fatalf("expected ErrBookingInProgress, got %v", err)
	}
	if store.BookingRepo.CountBookings() != 0 {
		t.Error("expected no booking to be created under contention")
	}
}

func TestCancelBooking_CascadesToTripAndVehicle(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	vehicle := newBookableVehicle("veh-1", "owner-1", "driver-1")
	vehicle.Status = domain.VehicleStatusInTransit
	store.VehicleRepo.AddVehicle(vehicle)
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:         "bk-1",
		CustomerID: "cust-1",
		VehicleID:  "veh-1",
		StartDate:  date(10),
		EndDate:    date(12),
		Status:     domain.BookingStatusConfirmed,
	})
	store.TripRepo.AddTrip(&domain.Trip{
		ID:        "trip-1",
		BookingID: "bk-1",
		DriverID:  "driver-1",
		VehicleID: "veh-1",
		Status:    domain.TripStatusStarted,
	})

	svc := service.NewBookingService(store, nil, nil, 100)

	booking, err := svc.CancelBooking(context.Background(), "bk-1", domain.Actor{ID: "cust-1", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, booking.Status)
	}

	trip := store.TripRepo.GetTrip("trip-1")
	if !trip.IsDeleted {
		t.Error("expected trip to be soft-deleted")
	}

	if got := store.VehicleRepo.GetVehicle("veh-1").Status; got != domain.VehicleStatusIdle {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusIdle, got)
	}
}

func TestCancelBooking_WithoutTripOnlyChangesBooking(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:         "bk-1",
		CustomerID: "cust-1",
		VehicleID:  "veh-1",
		Status:     domain.BookingStatusPending,
	})

	svc := service.NewBookingService(store, nil, nil, 100)

	if _, err := svc.CancelBooking(context.Background(), "bk-1", domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.VehicleRepo.GetVehicle("veh-1").Status; got != domain.VehicleStatusIdle {
		t.Errorf("vehicle status should stay %s, got %s", domain.VehicleStatusIdle, got)
	}
	if store.VehicleRepo.UpdateCallCount != 0 {
		t.Error("expected no vehicle update when the booking has no trip")
	}
}

func TestCancelBooking_TerminalStatesRejected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  domain.BookingStatus
		wantErr error
	}{
		{"cancelled twice", domain.BookingStatusCancelled, service.ErrBookingAlreadyCancelled},
		{"completed", domain.BookingStatusCompleted, service.ErrBookingCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMockStore()
			store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
			store.BookingRepo.AddBooking(&domain.Booking{
				ID:         "bk-1",
				CustomerID: "cust-1",
				VehicleID:  "veh-1",
				Status:     tc.status,
			})

			svc := service.NewBookingService(store, nil, nil, 100)

			_, err := svc.CancelBooking(context.Background(), "bk-1", domain.Actor{ID: "cust-1", Role: domain.RoleCustomer})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCancelBooking_Authorization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{"own customer", domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}, nil},
		{"other customer", domain.Actor{ID: "cust-2", Role: domain.RoleCustomer}, service.ErrForbidden},
		{"vehicle owner", domain.Actor{ID: "owner-1", Role: domain.RoleOwner}, nil},
		{"other owner", domain.Actor{ID: "owner-2", Role: domain.RoleOwner}, service.ErrForbidden},
		{"admin", domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, nil},
		{"driver", domain.Actor{ID: "driver-1", Role: domain.RoleDriver}, service.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMockStore()
			store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
			store.BookingRepo.AddBooking(&domain.Booking{
				ID:         "bk-1",
				CustomerID: "cust-1",
				VehicleID:  "veh-1",
				Status:     domain.BookingStatusConfirmed,
			})

			svc := service.NewBookingService(store, nil, nil, 100)

			_, err := svc.CancelBooking(context.Background(), "bk-1", tc.actor)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestListBookings_RoleScoping(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-1", "owner-1", "driver-1"))
	store.VehicleRepo.AddVehicle(newBookableVehicle("veh-2", "owner-2", "driver-2"))
	store.BookingRepo.AddBooking(&domain.Booking{ID: "bk-1", CustomerID: "cust-1", VehicleID: "veh-1", Status: domain.BookingStatusConfirmed})
	store.BookingRepo.AddBooking(&domain.Booking{ID: "bk-2", CustomerID: "cust-2", VehicleID: "veh-2", Status: domain.BookingStatusConfirmed})

	svc := service.NewBookingService(store, nil, nil, 100)

	customerResult, err := svc.ListBookings(context.Background(), domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}, repository.BookingFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(customerResult.Bookings) != 1 || customerResult.Bookings[0].ID != "bk-1" {
		t.Errorf("customer should see only their booking, got %d", len(customerResult.Bookings))
	}

	ownerResult, err := svc.ListBookings(context.Background(), domain.Actor{ID: "owner-2", Role: domain.RoleOwner}, repository.BookingFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ownerResult.Bookings) != 1 || ownerResult.Bookings[0].ID != "bk-2" {
		t.Errorf("owner should see only their fleet's bookings, got %d", len(ownerResult.Bookings))
	}

	adminResult, err := svc.ListBookings(context.Background(), domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, repository.BookingFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adminResult.Bookings) != 2 {
		t.Errorf("admin should see all bookings, got %d", len(adminResult.Bookings))
	}

	if _, err := svc.ListBookings(context.Background(), domain.Actor{ID: "driver-1", Role: domain.RoleDriver}, repository.BookingFilter{}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for drivers, got %v", err)
	}
}
