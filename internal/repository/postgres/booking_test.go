package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

var bookingRows = []string{"id", "customer_id", "vehicle_id", "start_date", "end_date", "total_cost", "status", "is_deleted", "deleted_at", "created_at"}

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestFindConflicting_ReturnsOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectQuery("FROM bookings").
		WithArgs("veh-1", sqlmock.AnyArg(), day(14), day(12)).
		WillReturnRows(sqlmock.NewRows(bookingRows).
			AddRow("bk-1", "cust-1", "veh-1", day(10), day(15), 500.0, "CONFIRMED", false, nil, day(1)))

	booking, err := repo.FindConflicting(context.Background(), "veh-1", day(12), day(14),
		[]domain.BookingStatus{domain.BookingStatusCancelled, domain.BookingStatusCompleted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking == nil || booking.ID != "bk-1" {
		t.Fatalf("expected bk-1, got %+v", booking)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindConflicting_NoRowsMeansAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectQuery("FROM bookings").
		WillReturnRows(sqlmock.NewRows(bookingRows))

	booking, err := repo.FindConflicting(context.Background(), "veh-1", day(12), day(14), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking != nil {
		t.Fatalf("expected nil booking, got %+v", booking)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectQuery("FROM bookings").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingRows))

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_NoRowsAffectedIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	booking := &domain.Booking{ID: "bk-1", Status: domain.BookingStatusCancelled}
	if err := repo.Update(context.Background(), booking); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_FiltersJoinVehicles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("JOIN vehicles").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(bookingRows).
			AddRow("bk-1", "cust-1", "veh-1", day(10), day(12), 200.0, "CONFIRMED", false, nil, day(1)))

	bookings, total, err := repo.List(context.Background(), repository.BookingFilter{OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got total=%d len=%d", total, len(bookings))
	}
}
