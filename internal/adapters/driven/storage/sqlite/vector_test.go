package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

func TestVectorIndex_SearchOrdersBySimilarity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	chunks := indexGraph(t, store, "doc-1", "/docs/a.pdf", "Aigle")
	vectors := store.VectorIndex()
	require.NoError(t, vectors.Add(ctx, chunks[0].ID, []float32{0, 1, 0}))
	require.NoError(t, vectors.Add(ctx, chunks[1].ID, []float32{1, 0, 0}))

	hits, err := vectors.Search(ctx, []float32{0.9, 0.1, 0}, domain.SearchFilters{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, chunks[1].ID, hits[0].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
	assert.InDelta(t, 1.0, hits[0].Similarity, 0.05)
}

func TestVectorIndex_SearchMinSimilarity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	chunks := indexGraph(t, store, "doc-1", "/docs/a.pdf", "Aigle")
	vectors := store.VectorIndex()
	require.NoError(t, vectors.Add(ctx, chunks[0].ID, []float32{0, 1, 0}))
	require.NoError(t, vectors.Add(ctx, chunks[1].ID, []float32{1, 0, 0}))

	hits, err := vectors.Search(ctx, []float32{1, 0, 0}, domain.SearchFilters{}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, chunks[1].ID, hits[0].ChunkID)
}

func TestVectorIndex_SearchK(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	chunks := indexGraph(t, store, "doc-1", "/docs/a.pdf", "Aigle")
	vectors := store.VectorIndex()
	require.NoError(t, vectors.Add(ctx, chunks[0].ID, []float32{1, 0, 0}))
	require.NoError(t, vectors.Add(ctx, chunks[1].ID, []float32{0.9, 0.1, 0}))

	hits, err := vectors.Search(ctx, []float32{1, 0, 0}, domain.SearchFilters{}, 1, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorIndex_SearchAppliesFilters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	aigle := indexGraph(t, store, "doc-1", "/docs/a.pdf", "Aigle")
	nyon := indexGraph(t, store, "doc-2", "/docs/b.pdf", "Nyon")
	vectors := store.VectorIndex()
	require.NoError(t, vectors.Add(ctx, aigle[0].ID, []float32{1, 0, 0}))
	require.NoError(t, vectors.Add(ctx, nyon[0].ID, []float32{1, 0, 0}))

	hits, err := vectors.Search(ctx, []float32{1, 0, 0},
		domain.SearchFilters{Commune: "Nyon"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, nyon[0].ID, hits[0].ChunkID)
}

func TestVectorIndex_ChunksWithoutVectorsAreNeverCandidates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	chunks := indexGraph(t, store, "doc-1", "/docs/a.pdf", "Aigle")
	vectors := store.VectorIndex()
	require.NoError(t, vectors.Add(ctx, chunks[0].ID, []float32{1, 0, 0}))

	hits, err := vectors.Search(ctx, []float32{1, 0, 0}, domain.SearchFilters{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, chunks[0].ID, hits[0].ChunkID)
}

func TestVectorIndex_AddUpsertsAndDeleteRemoves(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	chunks := indexGraph(t, store, "doc-1", "/docs/a.pdf", "Aigle")
	vectors := store.VectorIndex()
	require.NoError(t, vectors.Add(ctx, chunks[0].ID, []float32{0, 1, 0}))
	require.NoError(t, vectors.Add(ctx, chunks[0].ID, []float32{1, 0, 0}))

	hits, err := vectors.Search(ctx, []float32{1, 0, 0}, domain.SearchFilters{}, 10, 0.9)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, vectors.Delete(ctx, chunks[0].ID))
	hits, err = vectors.Search(ctx, []float32{1, 0, 0}, domain.SearchFilters{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorIndex_SearchEmptyQuery(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	hits, err := store.VectorIndex().Search(context.Background(), nil, domain.SearchFilters{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)

	// Opposed vectors clamp to zero, never negative.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}))

	// Mismatched dimensions and zero vectors are not comparable.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}
