package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

const bcryptCost = 12

// DriverService manages driver accounts on behalf of admins.
type DriverService struct {
	store repository.Store
}

// NewDriverService creates a new DriverService.
func NewDriverService(store repository.Store) *DriverService {
	return &DriverService{store: store}
}

// CreateDriverRequest contains the parameters for creating a driver account.
type CreateDriverRequest struct {
	Name     string
	Email    string
	Password string
}

// CreateDriver creates a driver account with a hashed password.
func (s *DriverService) CreateDriver(ctx context.Context, req CreateDriverRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	driver := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleDriver,
		CreatedAt:    time.Now(),
	}

	if err := s.store.Users().Create(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return driver, nil
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.User, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.store.Users().GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.RoleDriver {
		return nil, repository.ErrNotFound
	}
	return driver, nil
}

// ListDriversResult contains one page of drivers and the total match count.
type ListDriversResult struct {
	Drivers []*domain.User
	Total   int64
}

// ListDrivers lists driver accounts, optionally filtered by email substring.
func (s *DriverService) ListDrivers(ctx context.Context, filter repository.UserFilter) (*ListDriversResult, error) {
	filter.Role = domain.RoleDriver

	drivers, total, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListDriversResult{Drivers: drivers, Total: total}, nil
}

// DeleteDriver removes a driver account. A driver with a trip in flight
// cannot be deleted; a held vehicle is released first.
func (s *DriverService) DeleteDriver(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		driver, err := tx.Users().GetByID(ctx, driverID)
		if err != nil {
			return err
		}
		if driver.Role != domain.RoleDriver {
			return repository.ErrNotFound
		}

		trip, err := tx.Trips().GetActiveByDriverID(ctx, driverID)
		if err != nil {
			return err
		}
		if trip != nil {
			return ErrDriverHasActiveTrip
		}

		vehicle, err := tx.Vehicles().GetByDriverID(ctx, driverID)
		if err != nil {
			return err
		}
		if vehicle != nil {
			vehicle.DriverID = ""
			if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
				return err
			}
		}

		driver.IsDeleted = true
		driver.DeletedAt = time.Now()
		return tx.Users().Update(ctx, driver)
	})
}
