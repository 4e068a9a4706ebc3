package service

import "errors"

var (
	// ErrInvalidVehicleID is returned when a vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidTripID is returned when a trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidDriverID is returned when a driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidDateRange is returned when a booking interval is malformed:
	// missing dates or start not strictly before end.
	ErrInvalidDateRange = errors.New("start date must be before end date")

	// ErrInvalidEmail is returned when an email is empty or malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPassword is returned when a password fails the length policy.
	ErrInvalidPassword = errors.New("password must be at least 6 characters")

	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidVehicleType is returned when a vehicle type is unknown.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidVehicle is returned when required vehicle fields are missing.
	ErrInvalidVehicle = errors.New("make, model and registration number are required")

	// ErrInvalidTripStatus is returned when a requested trip status is unknown.
	ErrInvalidTripStatus = errors.New("invalid trip status")

	// ErrVehicleUnavailable is returned when the vehicle is not IDLE.
	ErrVehicleUnavailable = errors.New("vehicle is not available")

	// ErrVehicleHasNoDriver is returned when booking a vehicle without a
	// registered driver.
	ErrVehicleHasNoDriver = errors.New("vehicle has no registered driver")

	// ErrVehicleAlreadyBooked is returned when the requested interval overlaps
	// an active booking for the vehicle.
	ErrVehicleAlreadyBooked = errors.New("vehicle is already booked for these dates")

	// ErrBookingInProgress is returned when another booking request currently
	// holds the vehicle's lock.
	ErrBookingInProgress = errors.New("another booking for this vehicle is in progress")

	// ErrDriverAlreadyRegistered is returned when a driver tries to register
	// to a second vehicle.
	ErrDriverAlreadyRegistered = errors.New("driver is already registered to a vehicle")

	// ErrVehicleHasDriver is returned when registering to a vehicle that
	// already has a driver.
	ErrVehicleHasDriver = errors.New("vehicle already has a registered driver")

	// ErrTripInProgress is returned when returning a vehicle while a trip is
	// in ASSIGNED or STARTED state.
	ErrTripInProgress = errors.New("cannot return vehicle with a trip in progress")

	// ErrDriverHasActiveTrip is returned when deleting a driver who still has
	// a trip in flight.
	ErrDriverHasActiveTrip = errors.New("driver has an active trip")

	// ErrBookingHasTrip is returned when a booking already has a live trip.
	ErrBookingHasTrip = errors.New("booking already has a trip")

	// ErrDriverNotRegistered is returned when the driver holds no vehicle.
	ErrDriverNotRegistered = errors.New("driver is not registered to a vehicle")

	// ErrBookingAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrBookingCompleted is returned when cancelling a completed booking.
	ErrBookingCompleted = errors.New("booking is already completed")

	// ErrBookingNotActionable is returned when creating a trip for a booking
	// in a terminal state.
	ErrBookingNotActionable = errors.New("booking is cancelled or completed")

	// ErrTripAlreadyCompleted is returned on transitions out of COMPLETED.
	ErrTripAlreadyCompleted = errors.New("trip is already completed")

	// ErrTripCancelled is returned when acting on a cancelled (soft-deleted) trip.
	ErrTripCancelled = errors.New("trip is cancelled")

	// ErrInvalidTransition is returned when a trip status transition skips a
	// state or regresses.
	ErrInvalidTransition = errors.New("trip status transition not allowed")

	// ErrStatusChangeNotAllowed is returned when a client tries to set a
	// vehicle status other than the IDLE/MAINTENANCE toggle.
	ErrStatusChangeNotAllowed = errors.New("vehicle status can only be toggled between IDLE and MAINTENANCE")

	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrRegistrationTaken is returned when a vehicle registration number is
	// already in use.
	ErrRegistrationTaken = errors.New("registration number already in use")

	// ErrForbidden is returned when the actor lacks authorization for the
	// target entity.
	ErrForbidden = errors.New("not authorized for this resource")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInvalidToken is returned for expired, malformed or revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
)
