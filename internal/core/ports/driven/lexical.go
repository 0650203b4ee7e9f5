package driven

import (
	"context"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// LexicalIndex provides ranked full-text search over chunk text.
// Backed by SQLite FTS5 with BM25 ranking.
type LexicalIndex interface {
	// Index adds or updates a chunk in the lexical index.
	Index(ctx context.Context, chunk domain.Chunk) error

	// Delete removes a chunk from the lexical index.
	Delete(ctx context.Context, chunkID string) error

	// Search returns the chunks best matching the query, restricted
	// to candidates whose parent document satisfies every filter.
	// Scores are positive, higher is better; the scale is
	// engine-specific and normalized by the caller.
	Search(ctx context.Context, query string, filters domain.SearchFilters, limit int) ([]LexicalHit, error)
}

// LexicalHit is one ranked full-text match.
type LexicalHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the engine relevance, higher is better.
	Score float64
}
