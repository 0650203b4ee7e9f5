package driven

import (
	"context"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// DocumentGraph is one document together with everything derived from
// it. The store persists the graph transactionally: the document, its
// chunks, entities and tag links become visible together or not at all.
type DocumentGraph struct {
	Document domain.Document
	Chunks   []domain.Chunk
	Entities []domain.EntityMention

	// Tags maps tag name to tag category. Linking a tag increments
	// its usage counter; unknown tags are created.
	Tags map[string]string
}

// DocumentStore persists documents and their derived records.
// Backed by SQLite.
type DocumentStore interface {
	// SaveGraph stores or replaces a document graph in one
	// transaction. Re-ingesting an existing path replaces its
	// chunks and entities atomically.
	SaveGraph(ctx context.Context, graph *DocumentGraph) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByPath retrieves a document by its source path.
	GetDocumentByPath(ctx context.Context, path string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetEntities retrieves the entity mentions of a document.
	GetEntities(ctx context.Context, documentID string) ([]domain.EntityMention, error)

	// ListDocuments returns all documents without their content.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListTags returns all known tags with usage counters.
	ListTags(ctx context.Context) ([]domain.Tag, error)

	// SaveEmbeddings stores the embedding vectors for chunks of a
	// document. Chunk IDs not present in the store are ignored.
	SaveEmbeddings(ctx context.Context, chunks []domain.Chunk) error

	// DeleteDocument removes a document; chunks, entities and tag
	// links cascade.
	DeleteDocument(ctx context.Context, id string) error
}

// StatsStore maintains the materialized aggregate projections over
// documents. The projections are refreshed explicitly, never on the
// write path.
type StatsStore interface {
	// RefreshStats recomputes both projections from document rows.
	RefreshStats(ctx context.Context) error

	// CategoryStats returns the per-category projection.
	CategoryStats(ctx context.Context) ([]domain.CategoryStat, error)

	// LocationStats returns the per-location projection.
	LocationStats(ctx context.Context) ([]domain.LocationStat, error)
}
