package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
)

func testGraph(docID, path string) *driven.DocumentGraph {
	amount := 14850000.0
	return &driven.DocumentGraph{
		Document: domain.Document{
			ID:                docID,
			Path:              path,
			Category:          "immobilier",
			Commune:           "Aigle",
			Canton:            "Vaud",
			PrincipalAmount:   &amount,
			CompletenessScore: 80,
			RichnessScore:     60,
		},
		Chunks: []domain.Chunk{
			{ID: docID + "-c0", DocumentID: docID, Index: 0, Content: "premier"},
			{ID: docID + "-c1", DocumentID: docID, Index: 1, Content: "second"},
		},
		Entities: []domain.EntityMention{
			{ID: docID + "-e0", DocumentID: docID, Type: domain.EntityOrganization, Value: "Expert SA", Normalized: "expert sa", MentionCount: 1},
		},
		Tags: map[string]string{
			"immobilier":    "classification",
			"canton_Vaud":   "geo",
			"commune_Aigle": "geo",
		},
	}
}

func TestDocumentStore_SaveGraphAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveGraph(ctx, testGraph("d1", "/docs/a.pdf")))

	doc, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "/docs/a.pdf", doc.Path)

	byPath, err := store.GetDocumentByPath(ctx, "/docs/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "d1", byPath.ID)

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Index)

	chunk, err := store.GetChunk(ctx, "d1-c1")
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Content)

	entities, err := store.GetEntities(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, domain.EntityOrganization, entities[0].Type)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.GetDocument(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = store.GetDocumentByPath(ctx, "/nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = store.GetChunk(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_SaveGraphReplaces(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveGraph(ctx, testGraph("d1", "/docs/a.pdf")))

	replacement := testGraph("d1", "/docs/a.pdf")
	replacement.Chunks = replacement.Chunks[:1]
	replacement.Tags = map[string]string{"juridique": "classification"}
	require.NoError(t, store.SaveGraph(ctx, replacement))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "juridique", tags[0].Name)
	assert.Equal(t, 1, tags[0].UsageCount)
}

func TestDocumentStore_TagUsageAcrossDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveGraph(ctx, testGraph("d1", "/a.pdf")))
	require.NoError(t, store.SaveGraph(ctx, testGraph("d2", "/b.pdf")))

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)

	byName := make(map[string]domain.Tag)
	for _, tag := range tags {
		byName[tag.Name] = tag
	}
	assert.Equal(t, 2, byName["immobilier"].UsageCount)
	assert.Equal(t, "geo", byName["canton_Vaud"].Category)

	require.NoError(t, store.DeleteDocument(ctx, "d1"))

	tags, err = store.ListTags(ctx)
	require.NoError(t, err)
	byName = make(map[string]domain.Tag)
	for _, tag := range tags {
		byName[tag.Name] = tag
	}
	assert.Equal(t, 1, byName["immobilier"].UsageCount)
}

func TestDocumentStore_SaveEmbeddings(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveGraph(ctx, testGraph("d1", "/a.pdf")))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	chunks[0].Embedding = []float32{0.1, 0.2}
	require.NoError(t, store.SaveEmbeddings(ctx, chunks[:1]))

	chunk, err := store.GetChunk(ctx, "d1-c0")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, chunk.Embedding)

	other, err := store.GetChunk(ctx, "d1-c1")
	require.NoError(t, err)
	assert.Nil(t, other.Embedding)
}

func TestDocumentStore_DeleteCascades(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveGraph(ctx, testGraph("d1", "/a.pdf")))
	require.NoError(t, store.DeleteDocument(ctx, "d1"))

	_, err := store.GetDocument(ctx, "d1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	entities, err := store.GetEntities(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, entities)

	assert.True(t, errors.Is(store.DeleteDocument(ctx, "d1"), domain.ErrNotFound))
}

func TestDocumentStore_ListDocumentsOmitsContent(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	graph := testGraph("d1", "/a.pdf")
	graph.Document.Content = "texte complet du document"
	require.NoError(t, store.SaveGraph(ctx, graph))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Content)
}

func TestDocumentStore_Stats(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveGraph(ctx, testGraph("d1", "/a.pdf")))
	require.NoError(t, store.SaveGraph(ctx, testGraph("d2", "/b.pdf")))
	require.NoError(t, store.RefreshStats(ctx))

	categories, err := store.CategoryStats(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "immobilier", categories[0].Category)
	assert.Equal(t, 2, categories[0].DocumentCount)
	assert.Equal(t, 4, categories[0].ChunkCount)
	assert.InDelta(t, 80.0, categories[0].AvgCompleteness, 1e-9)
	assert.InDelta(t, 2*14850000.0, categories[0].TotalAmount, 1e-9)

	locations, err := store.LocationStats(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Aigle", locations[0].Commune)
	assert.Equal(t, 2, locations[0].DocumentCount)
	assert.InDelta(t, 14850000.0, locations[0].AvgAmount, 1e-9)
}
