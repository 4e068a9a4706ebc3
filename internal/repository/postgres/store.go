package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"fleet/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier          = (*sql.DB)(nil)
	_ Querier          = (*sql.Tx)(nil)
	_ repository.Store = (*Store)(nil)
)

// Store is the PostgreSQL implementation of repository.Store.
type Store struct {
	db *sql.DB // nil when the store is transaction-scoped
	q  Querier
}

// NewStore creates a new PostgreSQL store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// Vehicles returns the vehicle repository bound to this store's querier.
func (s *Store) Vehicles() repository.VehicleRepository { return &VehicleRepository{q: s.q} }

// Bookings returns the booking repository bound to this store's querier.
func (s *Store) Bookings() repository.BookingRepository { return &BookingRepository{q: s.q} }

// Trips returns the trip repository bound to this store's querier.
func (s *Store) Trips() repository.TripRepository { return &TripRepository{q: s.q} }

// Users returns the user repository bound to this store's querier.
func (s *Store) Users() repository.UserRepository { return &UserRepository{q: s.q} }

// WithinTx runs fn with a store scoped to a serializable transaction. A store
// that is already transaction-scoped reuses its transaction, so lifecycle
// operations can nest helpers without opening a second one.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	if err := fn(&Store{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// mapWriteError converts driver-level write failures to repository errors.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}
