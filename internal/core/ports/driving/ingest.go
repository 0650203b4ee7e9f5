package driving

import (
	"context"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// IngestResult summarizes one ingestion.
type IngestResult struct {
	// DocumentID is the stored document's identifier.
	DocumentID string

	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// EntityCount is the number of deduplicated entity mentions.
	EntityCount int

	// EmbeddedCount is the number of chunks that received an
	// embedding; 0 when no embedding service is configured.
	EmbeddedCount int

	// Updated is true when an existing document was replaced.
	Updated bool

	// Document carries the enriched document fields.
	Document domain.Document
}

// IngestService runs the segmentation, enrichment and persistence
// pipeline for one extracted document text.
type IngestService interface {
	// Ingest processes extracted text under the given source path.
	// Re-ingesting a known path replaces its chunks atomically.
	// PageCount may be 0 when the extraction collaborator did not
	// report pages.
	Ingest(ctx context.Context, path, text string, pageCount int) (*IngestResult, error)
}
