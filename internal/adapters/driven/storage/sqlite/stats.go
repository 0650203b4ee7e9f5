package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
)

// statsStore implements driven.StatsStore. The projections live in
// their own tables and only change on RefreshStats, never on the
// document write path.
type statsStore struct {
	store *Store
}

var _ driven.StatsStore = (*statsStore)(nil)

// RefreshStats recomputes both projections from document rows.
func (s *statsStore) RefreshStats(ctx context.Context) error {
	now := time.Now().UTC()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM category_stats"); err != nil {
		return fmt.Errorf("clearing category stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO category_stats (category, document_count, chunk_count,
			avg_completeness, avg_richness, total_amount, refreshed_at)
		SELECT
			CASE WHEN d.category = '' THEN 'autre' ELSE d.category END AS cat,
			COUNT(*),
			COALESCE(SUM((SELECT COUNT(*) FROM chunks c WHERE c.document_id = d.id)), 0),
			COALESCE(AVG(d.completeness_score), 0),
			COALESCE(AVG(d.richness_score), 0),
			COALESCE(SUM(d.principal_amount), 0),
			?
		FROM documents d
		GROUP BY cat
	`, now); err != nil {
		return fmt.Errorf("refreshing category stats: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM location_stats"); err != nil {
		return fmt.Errorf("clearing location stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO location_stats (commune, canton, document_count, avg_amount, refreshed_at)
		SELECT d.commune, d.canton, COUNT(*), COALESCE(AVG(d.principal_amount), 0), ?
		FROM documents d
		WHERE d.commune != ''
		GROUP BY d.commune, d.canton
	`, now); err != nil {
		return fmt.Errorf("refreshing location stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CategoryStats returns the per-category projection.
func (s *statsStore) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT category, document_count, chunk_count, avg_completeness,
			avg_richness, total_amount, refreshed_at
		FROM category_stats
		ORDER BY document_count DESC, category
	`)
	if err != nil {
		return nil, fmt.Errorf("querying category stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CategoryStat //nolint:prealloc // size unknown from query
	for rows.Next() {
		var stat domain.CategoryStat
		if err := rows.Scan(&stat.Category, &stat.DocumentCount, &stat.ChunkCount,
			&stat.AvgCompleteness, &stat.AvgRichness, &stat.TotalAmount,
			&stat.RefreshedAt); err != nil {
			return nil, fmt.Errorf("scanning category stat: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category stats: %w", err)
	}

	return stats, nil
}

// LocationStats returns the per-location projection.
func (s *statsStore) LocationStats(ctx context.Context) ([]domain.LocationStat, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT commune, canton, document_count, avg_amount, refreshed_at
		FROM location_stats
		ORDER BY document_count DESC, commune
	`)
	if err != nil {
		return nil, fmt.Errorf("querying location stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.LocationStat //nolint:prealloc // size unknown from query
	for rows.Next() {
		var stat domain.LocationStat
		if err := rows.Scan(&stat.Commune, &stat.Canton, &stat.DocumentCount,
			&stat.AvgAmount, &stat.RefreshedAt); err != nil {
			return nil, fmt.Errorf("scanning location stat: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location stats: %w", err)
	}

	return stats, nil
}
