package domain

import "time"

// VehicleStatus represents the current status of a vehicle.
type VehicleStatus string

const (
	VehicleStatusIdle        VehicleStatus = "IDLE"
	VehicleStatusInTransit   VehicleStatus = "IN_TRANSIT"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
)

// VehicleType represents the body type of a vehicle.
type VehicleType string

const (
	VehicleTypeSedan VehicleType = "SEDAN"
	VehicleTypeSUV   VehicleType = "SUV"
	VehicleTypeTruck VehicleType = "TRUCK"
	VehicleTypeVan   VehicleType = "VAN"
)

// Vehicle represents a fleet vehicle owned by an OWNER user.
type Vehicle struct {
	ID                 string
	OwnerID            string
	DriverID           string // empty while no driver is registered
	Make               string
	Model              string
	RegistrationNumber string
	Type               VehicleType
	Status             VehicleStatus
	IsDeleted          bool
	DeletedAt          time.Time
	CreatedAt          time.Time
}

// AvailableForBooking reports whether the vehicle can accept a new booking:
// it must be IDLE and have a registered driver.
func (v *Vehicle) AvailableForBooking() bool {
	return v.Status == VehicleStatusIdle && v.DriverID != ""
}

// ValidVehicleType reports whether t is a known vehicle type.
func ValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleTypeSedan, VehicleTypeSUV, VehicleTypeTruck, VehicleTypeVan:
		return true
	}
	return false
}

// Info returns a human-readable description used in notifications.
func (v *Vehicle) Info() string {
	return v.Make + " " + v.Model + " (" + v.RegistrationNumber + ")"
}
