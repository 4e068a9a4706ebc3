package service

import (
	"context"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// conflictExcludedStatuses are the booking statuses that do not block a new
// booking: cancelled bookings vacate their interval, and completed bookings
// are historical (the stricter of the two policies the platform has run).
var conflictExcludedStatuses = []domain.BookingStatus{
	domain.BookingStatusCancelled,
	domain.BookingStatusCompleted,
}

// hasBookingConflict reports whether any active booking for the vehicle
// intersects the half-open interval [start, end). It takes the repository as
// an argument so the booking lifecycle can run the same check against a
// transaction-scoped repository.
func hasBookingConflict(ctx context.Context, bookings repository.BookingRepository, vehicleID string, start, end time.Time) (bool, error) {
	conflict, err := bookings.FindConflicting(ctx, vehicleID, start, end, conflictExcludedStatuses)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// AvailabilityService answers vehicle availability queries.
type AvailabilityService struct {
	store repository.Store
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(store repository.Store) *AvailabilityService {
	return &AvailabilityService{store: store}
}

// HasConflict reports whether booking the vehicle for [start, end) would
// collide with an existing booking. Read-only; dates are taken as absolute
// instants with no timezone normalization.
func (s *AvailabilityService) HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	if vehicleID == "" {
		return false, ErrInvalidVehicleID
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return false, ErrInvalidDateRange
	}

	return hasBookingConflict(ctx, s.store.Bookings(), vehicleID, start, end)
}
