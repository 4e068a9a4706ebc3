package service

import (
	"context"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// AnalyticsService serves the admin dashboard rollups.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(analytics repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

// Dashboard computes the current dashboard aggregates.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.analytics.DashboardStats(ctx)
}
