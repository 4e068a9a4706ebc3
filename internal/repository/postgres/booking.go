package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

const bookingColumns = `id, customer_id, vehicle_id, start_date, end_date, total_cost, status, is_deleted, deleted_at, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, vehicle_id, start_date, end_date, total_cost, status, is_deleted, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.VehicleID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalCost,
		booking.Status,
		booking.IsDeleted,
		nullTime(booking.DeletedAt),
		booking.CreatedAt,
	)

	return mapWriteError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND is_deleted = FALSE`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// List retrieves bookings matching the filter, newest first. The owner and
// registration filters join through the vehicles table.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int64, error) {
	where := "b.is_deleted = FALSE"
	args := []any{}

	if filter.VehicleID != "" {
		args = append(args, filter.VehicleID)
		where += fmt.Sprintf(" AND b.vehicle_id = $%d", len(args))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where += fmt.Sprintf(" AND b.customer_id = $%d", len(args))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where += fmt.Sprintf(" AND v.owner_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND b.end_date > $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND b.start_date < $%d", len(args))
	}
	if filter.Registration != "" {
		args = append(args, "%"+filter.Registration+"%")
		where += fmt.Sprintf(" AND v.registration_number ILIKE $%d", len(args))
	}

	from := ` FROM bookings b JOIN vehicles v ON v.id = b.vehicle_id WHERE ` + where

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT b.id, b.customer_id, b.vehicle_id, b.start_date, b.end_date, b.total_cost, b.status, b.is_deleted, b.deleted_at, b.created_at` +
		from + ` ORDER BY b.created_at DESC` + limitOffset(filter.Page, filter.Limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, total, rows.Err()
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET customer_id = $1, vehicle_id = $2, start_date = $3, end_date = $4, total_cost = $5, status = $6, is_deleted = $7, deleted_at = $8
		WHERE id = $9 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query,
		booking.CustomerID,
		booking.VehicleID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalCost,
		booking.Status,
		booking.IsDeleted,
		nullTime(booking.DeletedAt),
		booking.ID,
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

// FindConflicting returns a booking whose half-open [start_date, end_date)
// interval intersects [start, end) for the vehicle, skipping excluded statuses.
func (r *BookingRepository) FindConflicting(ctx context.Context, vehicleID string, start, end time.Time, excludeStatuses []domain.BookingStatus) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vehicle_id = $1
		  AND is_deleted = FALSE
		  AND status != ALL($2)
		  AND start_date < $3
		  AND end_date > $4
		LIMIT 1
	`

	excluded := make([]string, len(excludeStatuses))
	for i, s := range excludeStatuses {
		excluded[i] = string(s)
	}

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, vehicleID, pq.Array(excluded), end, start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return booking, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var deletedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.VehicleID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalCost,
		&booking.Status,
		&booking.IsDeleted,
		&deletedAt,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		booking.DeletedAt = deletedAt.Time
	}

	return &booking, nil
}
