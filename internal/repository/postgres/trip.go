package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

const tripColumns = `id, booking_id, driver_id, vehicle_id, status, start_odometer, end_odometer, start_time, end_time, is_deleted, deleted_at, created_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, booking_id, driver_id, vehicle_id, status, start_odometer, end_odometer, start_time, end_time, is_deleted, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.BookingID,
		trip.DriverID,
		trip.VehicleID,
		trip.Status,
		nullInt64(trip.StartOdometer),
		nullInt64(trip.EndOdometer),
		nullTime(trip.StartTime),
		nullTime(trip.EndTime),
		trip.IsDeleted,
		nullTime(trip.DeletedAt),
		trip.CreatedAt,
	)

	return mapWriteError(err)
}

// GetByID retrieves a non-deleted trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND is_deleted = FALSE`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetByIDAny retrieves a trip by ID regardless of the soft-delete flag.
func (r *TripRepository) GetByIDAny(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetByBookingID retrieves the non-deleted trip for a booking.
func (r *TripRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE booking_id = $1 AND is_deleted = FALSE LIMIT 1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

// GetActiveByDriverID retrieves the trip a driver currently has in flight.
func (r *TripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND status IN ('ASSIGNED', 'STARTED') AND is_deleted = FALSE
		LIMIT 1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

// List retrieves trips matching the filter, newest first.
func (r *TripRepository) List(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, int64, error) {
	where := "is_deleted = FALSE"
	args := []any{}

	if filter.DriverID != "" {
		args = append(args, filter.DriverID)
		where += fmt.Sprintf(" AND driver_id = $%d", len(args))
	}
	if filter.VehicleID != "" {
		args = append(args, filter.VehicleID)
		where += fmt.Sprintf(" AND vehicle_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE ` + where + ` ORDER BY created_at DESC` + limitOffset(filter.Page, filter.Limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, trip)
	}
	return trips, total, rows.Err()
}

// Update updates an existing trip. The soft-delete transition goes through
// here too: the row must still be live when the update lands.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET status = $1, start_odometer = $2, end_odometer = $3, start_time = $4, end_time = $5, is_deleted = $6, deleted_at = $7
		WHERE id = $8 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		nullInt64(trip.StartOdometer),
		nullInt64(trip.EndOdometer),
		nullTime(trip.StartTime),
		nullTime(trip.EndTime),
		trip.IsDeleted,
		nullTime(trip.DeletedAt),
		trip.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var startOdometer, endOdometer sql.NullInt64
	var startTime, endTime, deletedAt sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.BookingID,
		&trip.DriverID,
		&trip.VehicleID,
		&trip.Status,
		&startOdometer,
		&endOdometer,
		&startTime,
		&endTime,
		&trip.IsDeleted,
		&deletedAt,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startOdometer.Valid {
		trip.StartOdometer = startOdometer.Int64
	}
	if endOdometer.Valid {
		trip.EndOdometer = endOdometer.Int64
	}
	if startTime.Valid {
		trip.StartTime = startTime.Time
	}
	if endTime.Valid {
		trip.EndTime = endTime.Time
	}
	if deletedAt.Valid {
		trip.DeletedAt = deletedAt.Time
	}

	return &trip, nil
}

func nullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
