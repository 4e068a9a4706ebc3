package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TripService owns the trip execution lifecycle: manual trip creation for
// pending bookings, driver-gated status transitions with their vehicle and
// booking cascades, and cancellation.
type TripService struct {
	store    repository.Store
	odometer OdometerReader
	notifier *NotificationService
}

// NewTripService creates a new TripService.
func NewTripService(store repository.Store, odometer OdometerReader, notifier *NotificationService) *TripService {
	return &TripService{
		store:    store,
		odometer: odometer,
		notifier: notifier,
	}
}

// CreateTrip assigns a trip to a pending booking. The booking is confirmed in
// the same transaction; bookings that already reached a terminal state are
// rejected. The driver must be the one registered to the booked vehicle and a
// booking carries at most one live trip.
func (s *TripService) CreateTrip(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Trip, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	var trip *domain.Trip
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.Terminal() {
			return ErrBookingNotActionable
		}

		existing, err := tx.Trips().GetByBookingID(ctx, booking.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrBookingHasTrip
		}

		vehicle, err := tx.Vehicles().GetByID(ctx, booking.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.DriverID == "" {
			return ErrVehicleHasNoDriver
		}

		if booking.Status == domain.BookingStatusPending {
			booking.Status = domain.BookingStatusConfirmed
			if err := tx.Bookings().Update(ctx, booking); err != nil {
				return err
			}
		}

		trip = &domain.Trip{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			DriverID:  vehicle.DriverID,
			VehicleID: vehicle.ID,
			Status:    domain.TripStatusAssigned,
			CreatedAt: time.Now(),
		}
		return tx.Trips().Create(ctx, trip)
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// UpdateTripStatus moves a trip through its state machine. Only the trip's
// own driver may transition it. Starting a trip records the odometer and puts
// the vehicle in transit; completing it records the closing odometer, frees
// the vehicle and completes the booking, all in one transaction.
func (s *TripService) UpdateTripStatus(ctx context.Context, tripID string, next domain.TripStatus, actor domain.Actor) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if !domain.ValidTripStatus(next) {
		return nil, ErrInvalidTripStatus
	}

	var trip *domain.Trip
	var booking *domain.Booking
	var vehicle *domain.Vehicle

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		trip, err = tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		if actor.Role != domain.RoleDriver || trip.DriverID != actor.ID {
			return ErrForbidden
		}

		if trip.Status == domain.TripStatusCompleted {
			return ErrTripAlreadyCompleted
		}
		if !domain.CanTransition(trip.Status, next) {
			return ErrInvalidTransition
		}

		vehicle, err = tx.Vehicles().GetByID(ctx, trip.VehicleID)
		if err != nil {
			return err
		}

		now := time.Now()
		switch next {
		case domain.TripStatusStarted:
			reading, err := s.odometer.Read(ctx, trip.VehicleID)
			if err != nil {
				return err
			}
			trip.Status = domain.TripStatusStarted
			trip.StartOdometer = reading
			trip.StartTime = now

			vehicle.Status = domain.VehicleStatusInTransit
			if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
				return err
			}

		case domain.TripStatusCompleted:
			reading, err := s.odometer.Read(ctx, trip.VehicleID)
			if err != nil {
				return err
			}
			trip.Status = domain.TripStatusCompleted
			trip.EndOdometer = reading
			trip.EndTime = now

			vehicle.Status = domain.VehicleStatusIdle
			if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
				return err
			}

			booking, err = tx.Bookings().GetByID(ctx, trip.BookingID)
			if err != nil {
				return err
			}
			booking.Status = domain.BookingStatusCompleted
			if err := tx.Bookings().Update(ctx, booking); err != nil {
				return err
			}
		}

		return tx.Trips().Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && booking != nil {
		if customer, err := s.store.Users().GetByID(ctx, booking.CustomerID); err == nil {
			s.notifier.SendTripCompletion(ctx, customer.Email, TripCompletionDetails{
				TripID:        trip.ID,
				VehicleInfo:   vehicle.Info(),
				StartTime:     trip.StartTime,
				EndTime:       trip.EndTime,
				StartOdometer: trip.StartOdometer,
				EndOdometer:   trip.EndOdometer,
			})
		}
	}

	return trip, nil
}

// CancelTrip soft-deletes a trip, frees its vehicle and cancels the booking
// unless the booking already completed. Completed trips cannot be cancelled.
func (s *TripService) CancelTrip(ctx context.Context, tripID string, actor domain.Actor) error {
	if tripID == "" {
		return ErrInvalidTripID
	}

	var trip *domain.Trip
	var booking *domain.Booking
	var vehicle *domain.Vehicle

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		trip, err = tx.Trips().GetByIDAny(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.IsDeleted {
			return ErrTripCancelled
		}

		if err := authorizeTripCancel(trip, actor); err != nil {
			return err
		}

		if trip.Status == domain.TripStatusCompleted {
			return ErrTripAlreadyCompleted
		}

		trip.IsDeleted = true
		trip.DeletedAt = time.Now()
		if err := tx.Trips().Update(ctx, trip); err != nil {
			return err
		}

		vehicle, err = tx.Vehicles().GetByID(ctx, trip.VehicleID)
		if err != nil {
			return err
		}
		vehicle.Status = domain.VehicleStatusIdle
		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return err
		}

		booking, err = tx.Bookings().GetByID(ctx, trip.BookingID)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusCompleted {
			booking.Status = domain.BookingStatusCancelled
			if err := tx.Bookings().Update(ctx, booking); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		if customer, err := s.store.Users().GetByID(ctx, booking.CustomerID); err == nil {
			s.notifier.SendTripCancellation(ctx, customer.Email, TripCancellationDetails{
				TripID:      trip.ID,
				BookingID:   booking.ID,
				VehicleInfo: vehicle.Info(),
			})
		}
	}

	return nil
}

// GetTrip retrieves a trip. Drivers see their own trips, admins any.
func (s *TripService) GetTrip(ctx context.Context, tripID string, actor domain.Actor) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleDriver && trip.DriverID != actor.ID {
		return nil, ErrForbidden
	}
	return trip, nil
}

// ListTripsResult contains one page of trips and the total match count.
type ListTripsResult struct {
	Trips []*domain.Trip
	Total int64
}

// ListTrips lists trips scoped to the actor's role: drivers see their own,
// admins see everything the filter matches.
func (s *TripService) ListTrips(ctx context.Context, actor domain.Actor, filter repository.TripFilter) (*ListTripsResult, error) {
	switch actor.Role {
	case domain.RoleDriver:
		filter.DriverID = actor.ID
	case domain.RoleAdmin:
		// unrestricted
	default:
		return nil, ErrForbidden
	}

	trips, total, err := s.store.Trips().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListTripsResult{Trips: trips, Total: total}, nil
}

func authorizeTripCancel(trip *domain.Trip, actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDriver:
		if trip.DriverID == actor.ID {
			return nil
		}
	}
	return ErrForbidden
}
