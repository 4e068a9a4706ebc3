package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking represents a customer's reservation of a vehicle for a date range.
// TotalCost is derived at creation time, never supplied by clients.
type Booking struct {
	ID         string
	CustomerID string
	VehicleID  string
	StartDate  time.Time
	EndDate    time.Time
	TotalCost  float64
	Status     BookingStatus
	IsDeleted  bool
	DeletedAt  time.Time
	CreatedAt  time.Time
}

// Terminal reports whether the booking is in a state that permits no further
// customer-visible transitions.
func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// Overlaps reports whether the booking's [start, end) interval intersects the
// given half-open interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}
