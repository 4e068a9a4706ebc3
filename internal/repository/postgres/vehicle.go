package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

const vehicleColumns = `id, owner_id, driver_id, make, model, registration_number, type, status, is_deleted, deleted_at, created_at`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, owner_id, driver_id, make, model, registration_number, type, status, is_deleted, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		nullString(vehicle.DriverID),
		vehicle.Make,
		vehicle.Model,
		vehicle.RegistrationNumber,
		vehicle.Type,
		vehicle.Status,
		vehicle.IsDeleted,
		nullTime(vehicle.DeletedAt),
		vehicle.CreatedAt,
	)

	return mapWriteError(err)
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND is_deleted = FALSE`

	vehicle, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

// GetByDriverID retrieves the vehicle a driver is registered to.
func (r *VehicleRepository) GetByDriverID(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE driver_id = $1 AND is_deleted = FALSE`

	vehicle, err := scanVehicle(r.q.QueryRowContext(ctx, query, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return vehicle, nil
}

// List retrieves vehicles matching the filter, newest first.
func (r *VehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, int64, error) {
	where := "is_deleted = FALSE"
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.OnlyAvailable {
		where += " AND status = 'IDLE' AND driver_id IS NOT NULL"
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE ` + where + ` ORDER BY created_at DESC` + limitOffset(filter.Page, filter.Limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, total, rows.Err()
}

// Update updates an existing vehicle. Soft-deleted rows are never updated, so
// a delete is final.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET owner_id = $1, driver_id = $2, make = $3, model = $4, registration_number = $5, type = $6, status = $7, is_deleted = $8, deleted_at = $9
		WHERE id = $10 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query,
		vehicle.OwnerID,
		nullString(vehicle.DriverID),
		vehicle.Make,
		vehicle.Model,
		vehicle.RegistrationNumber,
		vehicle.Type,
		vehicle.Status,
		vehicle.IsDeleted,
		nullTime(vehicle.DeletedAt),
		vehicle.ID,
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var driverID sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&driverID,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.RegistrationNumber,
		&vehicle.Type,
		&vehicle.Status,
		&vehicle.IsDeleted,
		&deletedAt,
		&vehicle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		vehicle.DriverID = driverID.String
	}
	if deletedAt.Valid {
		vehicle.DeletedAt = deletedAt.Time
	}

	return &vehicle, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// limitOffset renders pagination clauses; page and limit must come from the
// validated filter structs, never raw client input.
func limitOffset(page, limit int) string {
	if limit <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, (page-1)*limit)
}
