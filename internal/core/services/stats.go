package services

import (
	"context"
	"fmt"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
	"github.com/dossier-labs/dossier-cli/internal/logger"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService exposes the materialized aggregate projections over
// documents. The projections are an eventually consistent cache: they
// reflect the last Refresh, not the live document rows.
type StatsService struct {
	stats driven.StatsStore
}

// NewStatsService creates a new stats service.
func NewStatsService(stats driven.StatsStore) *StatsService {
	return &StatsService{stats: stats}
}

// Refresh recomputes both projections from the document rows.
func (s *StatsService) Refresh(ctx context.Context) error {
	if err := s.stats.RefreshStats(ctx); err != nil {
		return fmt.Errorf("refresh stats: %w", err)
	}
	logger.Info("Aggregate statistics refreshed")
	return nil
}

// ByCategory returns the per-category projection.
func (s *StatsService) ByCategory(ctx context.Context) ([]domain.CategoryStat, error) {
	stats, err := s.stats.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return stats, nil
}

// ByLocation returns the per-location projection.
func (s *StatsService) ByLocation(ctx context.Context) ([]domain.LocationStat, error) {
	stats, err := s.stats.LocationStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("location stats: %w", err)
	}
	return stats, nil
}
