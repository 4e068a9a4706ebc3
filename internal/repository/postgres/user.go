package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `id, name, email, password_hash, role, refresh_token_hash, is_deleted, deleted_at, created_at`

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, refresh_token_hash, is_deleted, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		nullString(user.RefreshTokenHash),
		user.IsDeleted,
		nullTime(user.DeletedAt),
		user.CreatedAt,
	)

	return mapWriteError(err)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_deleted = FALSE`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_deleted = FALSE`
	return r.getOne(ctx, query, email)
}

// List retrieves users matching the filter, newest first.
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int64, error) {
	where := "is_deleted = FALSE"
	args := []any{}

	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		where += fmt.Sprintf(" AND email ILIKE $%d", len(args))
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY created_at DESC` + limitOffset(filter.Page, filter.Limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// Update updates an existing user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, role = $4, refresh_token_hash = $5, is_deleted = $6, deleted_at = $7
		WHERE id = $8 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		nullString(user.RefreshTokenHash),
		user.IsDeleted,
		nullTime(user.DeletedAt),
		user.ID,
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

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var refreshTokenHash sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&refreshTokenHash,
		&user.IsDeleted,
		&deletedAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if refreshTokenHash.Valid {
		user.RefreshTokenHash = refreshTokenHash.String
	}
	if deletedAt.Valid {
		user.DeletedAt = deletedAt.Time
	}

	return &user, nil
}
