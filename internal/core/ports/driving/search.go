package driving

import (
	"context"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// SearchService provides hybrid search over ingested documents.
type SearchService interface {
	// Search fuses semantic and lexical relevance into one ranked
	// list. A request with no usable query input yields an empty
	// response with an explanatory status, not an error; storage
	// failure yields an error so callers can distinguish "no
	// matches" from "could not search".
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResponse, error)
}

// DocumentService exposes stored documents to the driving adapters.
type DocumentService interface {
	// List returns all documents without their content.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Chunks returns a document's chunks ordered by index.
	Chunks(ctx context.Context, id string) ([]domain.Chunk, error)

	// Entities returns a document's entity mentions.
	Entities(ctx context.Context, id string) ([]domain.EntityMention, error)

	// Delete removes a document and everything derived from it.
	Delete(ctx context.Context, id string) error
}

// StatsService exposes the materialized aggregate projections.
type StatsService interface {
	// Refresh recomputes the projections from document rows.
	Refresh(ctx context.Context) error

	// ByCategory returns the per-category projection.
	ByCategory(ctx context.Context) ([]domain.CategoryStat, error)

	// ByLocation returns the per-location projection.
	ByLocation(ctx context.Context) ([]domain.LocationStat, error)
}
