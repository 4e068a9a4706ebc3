package postgres

import (
	"context"
	"database/sql"
	"math"

	"fleet/internal/domain"
)

// AnalyticsRepository computes dashboard rollups directly in SQL.
type AnalyticsRepository struct {
	q Querier
}

// NewAnalyticsRepository creates a new PostgreSQL analytics repository.
func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{q: db}
}

// DashboardStats computes the admin dashboard aggregates in a handful of
// aggregate queries. Revenue counts confirmed and completed bookings.
func (r *AnalyticsRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_cost), 0)
		FROM bookings
		WHERE status IN ('CONFIRMED', 'COMPLETED') AND is_deleted = FALSE
	`).Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	err = r.q.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'STARTED'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED')
		FROM trips
		WHERE is_deleted = FALSE
	`).Scan(&stats.ActiveTrips, &stats.CompletedTrips)
	if err != nil {
		return nil, err
	}

	err = r.q.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status != 'IDLE')
		FROM vehicles
		WHERE is_deleted = FALSE
	`).Scan(&stats.VehicleUtilization.TotalVehicles, &stats.VehicleUtilization.ActiveVehicles)
	if err != nil {
		return nil, err
	}

	err = r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings WHERE is_deleted = FALSE
	`).Scan(&stats.TotalBookings)
	if err != nil {
		return nil, err
	}

	if stats.VehicleUtilization.TotalVehicles > 0 {
		rate := float64(stats.VehicleUtilization.ActiveVehicles) / float64(stats.VehicleUtilization.TotalVehicles) * 100
		stats.VehicleUtilization.UtilizationRate = math.Round(rate*100) / 100
	}

	return stats, nil
}
