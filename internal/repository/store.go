package repository

import "context"

// Store bundles the entity repositories and provides the transaction boundary
// for multi-entity state transitions.
type Store interface {
	Vehicles() VehicleRepository
	Bookings() BookingRepository
	Trips() TripRepository
	Users() UserRepository

	// WithinTx runs fn with a Store whose repositories share one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Every read-check-write sequence that spans Vehicle, Booking and Trip
	// state goes through here so no half-updated state is ever visible.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
