package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusAssigned  TripStatus = "ASSIGNED"
	TripStatusStarted   TripStatus = "STARTED"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// tripTransitions defines the allowed trip status transitions.
// STARTED is mandatory between ASSIGNED and COMPLETED; COMPLETED is terminal.
// Cancellation is modelled as a soft delete, not a status.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusAssigned:  {TripStatusStarted},
	TripStatusStarted:   {TripStatusCompleted},
	TripStatusCompleted: {},
}

// CanTransition reports whether from -> to is an allowed trip transition.
func CanTransition(from, to TripStatus) bool {
	for _, s := range tripTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidTripStatus reports whether s is a known trip status.
func ValidTripStatus(s TripStatus) bool {
	_, ok := tripTransitions[s]
	return ok
}

// Trip is the operational record of a driver executing a confirmed booking.
// Odometer readings and times are set only from STARTED/COMPLETED onward.
type Trip struct {
	ID            string
	BookingID     string
	DriverID      string
	VehicleID     string
	Status        TripStatus
	StartOdometer int64
	EndOdometer   int64
	StartTime     time.Time
	EndTime       time.Time
	IsDeleted     bool
	DeletedAt     time.Time
	CreatedAt     time.Time
}

// Active reports whether the trip is in flight, i.e. not completed and not
// cancelled (soft-deleted).
func (t *Trip) Active() bool {
	return !t.IsDeleted && (t.Status == TripStatusAssigned || t.Status == TripStatusStarted)
}
