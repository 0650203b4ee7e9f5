package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, semantic search is disabled
// and the ranker degrades to lexical-only.
//
// Note: this is separate from VectorIndex, which stores and searches
// vectors. EmbeddingService generates them; the core treats the vector
// as opaque apart from its fixed dimensionality.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model in use.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request, used at startup before committing to a search mode.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
