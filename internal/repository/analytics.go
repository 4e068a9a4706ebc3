package repository

import (
	"context"

	"fleet/internal/domain"
)

// AnalyticsRepository provides read-only rollups over the other entities.
type AnalyticsRepository interface {
	// DashboardStats computes the admin dashboard aggregates. Soft-deleted
	// rows are excluded everywhere.
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
