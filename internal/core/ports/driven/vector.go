package driven

import (
	"context"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// VectorIndex provides semantic similarity search over chunk embeddings.
// Chunks without an embedding are never candidates.
type VectorIndex interface {
	// Add stores the embedding for the given chunk ID.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search finds the k nearest chunks to the query vector,
	// restricted to candidates whose parent document satisfies every
	// filter. Candidates with similarity below minSimilarity are
	// excluded outright; 0 disables the threshold.
	Search(ctx context.Context, query []float32, filters domain.SearchFilters, k int, minSimilarity float64) ([]VectorHit, error)
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity in [0,1].
	Similarity float64
}
