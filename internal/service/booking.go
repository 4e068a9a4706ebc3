package service

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

const (
	// DefaultRatePerDay is the fallback daily rate when none is configured.
	DefaultRatePerDay = 100.0

	vehicleLockTTL = 10 * time.Second
)

// BookingService owns the booking lifecycle: creation with availability and
// driver preconditions, cancellation with its trip/vehicle cascade, and
// role-scoped listing.
type BookingService struct {
	store      repository.Store
	locks      redis.LockStoreInterface
	notifier   *NotificationService
	ratePerDay float64
}

// NewBookingService creates a new BookingService. A nil lock store disables
// the per-vehicle serialization (tests); ratePerDay <= 0 falls back to the
// default rate.
func NewBookingService(store repository.Store, locks redis.LockStoreInterface, notifier *NotificationService, ratePerDay float64) *BookingService {
	if ratePerDay <= 0 {
		ratePerDay = DefaultRatePerDay
	}
	return &BookingService{
		store:      store,
		locks:      locks,
		notifier:   notifier,
		ratePerDay: ratePerDay,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	VehicleID string
	StartDate time.Time
	EndDate   time.Time
	Customer  domain.Actor
}

// CreateBooking reserves a vehicle for a date range. The vehicle must be IDLE
// with a registered driver and the interval must not overlap an active
// booking. On success the booking is CONFIRMED and its trip is created in
// ASSIGNED state within the same transaction; the per-vehicle lock closes the
// window between the conflict check and the insert.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidDateRange
	}

	if s.locks != nil {
		locked, err := s.locks.AcquireVehicleLock(ctx, req.VehicleID, vehicleLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrBookingInProgress
		}
		defer func() {
			if err := s.locks.ReleaseVehicleLock(ctx, req.VehicleID); err != nil {
				log.Printf("failed to release vehicle lock %s: %v", req.VehicleID, err)
			}
		}()
	}

	var booking *domain.Booking
	var vehicle *domain.Vehicle

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		vehicle, err = tx.Vehicles().GetByID(ctx, req.VehicleID)
		if err != nil {
			return err
		}

		if vehicle.Status != domain.VehicleStatusIdle {
			return ErrVehicleUnavailable
		}

		if vehicle.DriverID == "" {
			return ErrVehicleHasNoDriver
		}

		conflict, err := hasBookingConflict(ctx, tx.Bookings(), req.VehicleID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if conflict {
			return ErrVehicleAlreadyBooked
		}

		now := time.Now()
		booking = &domain.Booking{
			ID:         uuid.New().String(),
			CustomerID: req.Customer.ID,
			VehicleID:  req.VehicleID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			TotalCost:  s.totalCost(req.StartDate, req.EndDate),
			Status:     domain.BookingStatusConfirmed,
			CreatedAt:  now,
		}

		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		trip := &domain.Trip{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			DriverID:  vehicle.DriverID,
			VehicleID: vehicle.ID,
			Status:    domain.TripStatusAssigned,
			CreatedAt: now,
		}

		return tx.Trips().Create(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if customer, err := s.store.Users().GetByID(ctx, booking.CustomerID); err == nil {
			s.notifier.SendBookingConfirmation(ctx, customer.Email, BookingConfirmationDetails{
				BookingID:   booking.ID,
				VehicleInfo: vehicle.Info(),
				StartDate:   booking.StartDate,
				EndDate:     booking.EndDate,
				TotalCost:   booking.TotalCost,
			})
		}
	}

	return booking, nil
}

// CancelBooking cancels a booking. Customers may cancel their own bookings,
// owners the bookings of vehicles they own, admins any. A live trip is
// soft-deleted and the vehicle returns to IDLE in the same transaction.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	var booking *domain.Booking
	var cancelledTrip *domain.Trip
	var vehicle *domain.Vehicle

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		vehicle, err = tx.Vehicles().GetByID(ctx, booking.VehicleID)
		if err != nil {
			return err
		}

		if err := authorizeBookingCancel(booking, vehicle, actor); err != nil {
			return err
		}

		switch booking.Status {
		case domain.BookingStatusCancelled:
			return ErrBookingAlreadyCancelled
		case domain.BookingStatusCompleted:
			return ErrBookingCompleted
		}

		booking.Status = domain.BookingStatusCancelled
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}

		trip, err := tx.Trips().GetByBookingID(ctx, booking.ID)
		if err != nil {
			return err
		}

		if trip != nil && trip.Active() {
			trip.IsDeleted = true
			trip.DeletedAt = time.Now()
			if err := tx.Trips().Update(ctx, trip); err != nil {
				return err
			}

			vehicle.Status = domain.VehicleStatusIdle
			if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
				return err
			}

			cancelledTrip = trip
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && cancelledTrip != nil {
		if customer, err := s.store.Users().GetByID(ctx, booking.CustomerID); err == nil {
			s.notifier.SendTripCancellation(ctx, customer.Email, TripCancellationDetails{
				TripID:      cancelledTrip.ID,
				BookingID:   booking.ID,
				VehicleInfo: vehicle.Info(),
			})
		}
	}

	return booking, nil
}

// ListBookingsResult contains one page of bookings and the total match count.
type ListBookingsResult struct {
	Bookings []*domain.Booking
	Total    int64
}

// ListBookings lists bookings scoped to the actor's role: customers see their
// own, owners see bookings for vehicles they own, admins see everything the
// filter matches.
func (s *BookingService) ListBookings(ctx context.Context, actor domain.Actor, filter repository.BookingFilter) (*ListBookingsResult, error) {
	switch actor.Role {
	case domain.RoleCustomer:
		filter.CustomerID = actor.ID
		filter.OwnerID = ""
	case domain.RoleOwner:
		filter.OwnerID = actor.ID
	case domain.RoleAdmin:
		// unrestricted
	default:
		return nil, ErrForbidden
	}

	bookings, total, err := s.store.Bookings().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListBookingsResult{Bookings: bookings, Total: total}, nil
}

// GetBooking retrieves a single booking with the same scoping as ListBookings.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return booking, nil
	case domain.RoleCustomer:
		if booking.CustomerID != actor.ID {
			return nil, ErrForbidden
		}
		return booking, nil
	case domain.RoleOwner:
		vehicle, err := s.store.Vehicles().GetByID(ctx, booking.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.OwnerID != actor.ID {
			return nil, ErrForbidden
		}
		return booking, nil
	}
	return nil, ErrForbidden
}

// totalCost bills ceiling-days: partial days round up to a full day's rate.
func (s *BookingService) totalCost(start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	return math.Ceil(days) * s.ratePerDay
}

func authorizeBookingCancel(booking *domain.Booking, vehicle *domain.Vehicle, actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCustomer:
		if booking.CustomerID == actor.ID {
			return nil
		}
	case domain.RoleOwner:
		if vehicle.OwnerID == actor.ID {
			return nil
		}
	}
	return ErrForbidden
}
