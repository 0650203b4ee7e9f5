package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dossier-labs/dossier-cli/internal/adapters/driven/storage/memory"
	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/enrichment"
	"github.com/dossier-labs/dossier-cli/internal/postprocessors/segmenter"
)

const valuationText = `EXPERTISE IMMOBILIERE

Mandant: Fonds de Pension XYZ
Expert: Expert Immobilier SA
Date de l'expertise: 15.06.2023

Objet: Immeuble locatif de 24 logements
Adresse: Avenue de la Gare 10, 1860 Aigle (VD)
Surface totale: 2'500 m²
Annee de construction: 1985

Valeur venale estimee: 14'850'000 CHF
Valeur de rendement: 13'500'000 CHF
`

type ingestFixture struct {
	store    *memory.DocumentStore
	lexical  *mockLexicalIndex
	vectors  *mockVectorIndex
	embedder *mockEmbedder
	svc      *IngestService
}

func newIngestFixture(t *testing.T, embedder *mockEmbedder) *ingestFixture {
	t.Helper()

	seg, err := segmenter.New(segmenter.WithChunkSize(120), segmenter.WithOverlap(20))
	require.NoError(t, err)

	f := &ingestFixture{
		store:    memory.NewDocumentStore(),
		lexical:  &mockLexicalIndex{},
		vectors:  &mockVectorIndex{},
		embedder: embedder,
	}
	if embedder != nil {
		f.svc = NewIngestService(f.store, f.lexical, f.vectors, embedder, seg, enrichment.New())
	} else {
		f.svc = NewIngestService(f.store, f.lexical, f.vectors, nil, seg, enrichment.New())
	}
	return f
}

func TestIngestService_Ingest_EmptyPath(t *testing.T) {
	f := newIngestFixture(t, nil)

	_, err := f.svc.Ingest(context.Background(), "  ", valuationText, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestIngestService_Ingest_NewDocument(t *testing.T) {
	f := newIngestFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, "/docs/expertise_aigle_2023.pdf", valuationText, 3)
	require.NoError(t, err)

	assert.NotEmpty(t, result.DocumentID)
	assert.False(t, result.Updated)
	assert.Greater(t, result.ChunkCount, 1)
	assert.Zero(t, result.EmbeddedCount)

	chunks, err := f.store.GetChunks(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, result.ChunkCount)

	// Every chunk went into the lexical index.
	assert.Len(t, f.lexical.indexed, result.ChunkCount)

	// Offsets cover the text without gaps and page estimates stay in
	// range.
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, result.DocumentID, chunk.DocumentID)
		require.NotNil(t, chunk.Page)
		assert.GreaterOrEqual(t, *chunk.Page, 1)
		assert.LessOrEqual(t, *chunk.Page, 3)
	}
	assert.Zero(t, chunks[0].StartOffset)

	doc, err := f.store.GetDocument(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "expertise_aigle_2023.pdf", doc.FileName)
	assert.Equal(t, "Aigle", doc.Commune)
	assert.Equal(t, "Vaud", doc.Canton)
	require.NotNil(t, doc.PrincipalAmount)
	assert.Equal(t, 14850000.0, *doc.PrincipalAmount)
	assert.Contains(t, doc.Tags, "commune_Aigle")
	assert.Contains(t, doc.Tags, "contient_montants")
}

func TestIngestService_Ingest_Entities(t *testing.T) {
	f := newIngestFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, "/docs/expertise.pdf", valuationText, 0)
	require.NoError(t, err)
	require.Greater(t, result.EntityCount, 0)

	entities, err := f.store.GetEntities(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, entities, result.EntityCount)

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Value)
	}
	assert.Contains(t, names, "Expert Immobilier SA")
}

func TestIngestService_Ingest_ReplacesExisting(t *testing.T) {
	f := newIngestFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Ingest(ctx, "/docs/expertise.pdf", valuationText, 0)
	require.NoError(t, err)

	oldChunks, err := f.store.GetChunks(ctx, first.DocumentID)
	require.NoError(t, err)

	second, err := f.svc.Ingest(ctx, "/docs/expertise.pdf", valuationText+"\nAnnexe: photos.", 0)
	require.NoError(t, err)

	// Same document identity, replaced content.
	assert.True(t, second.Updated)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	// Every previous chunk was dropped from both indexes.
	for _, chunk := range oldChunks {
		assert.Contains(t, f.lexical.deleted, chunk.ID)
		assert.Contains(t, f.vectors.deleted, chunk.ID)
	}

	newChunks, err := f.store.GetChunks(ctx, second.DocumentID)
	require.NoError(t, err)
	assert.Len(t, newChunks, second.ChunkCount)
	for _, chunk := range newChunks {
		assert.NotContains(t, chunkIDs(oldChunks), chunk.ID)
	}
}

func TestIngestService_Ingest_Embeds(t *testing.T) {
	embedder := &mockEmbedder{embedding: []float32{0.1, 0.2, 0.3}}
	f := newIngestFixture(t, embedder)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, "/docs/expertise.pdf", valuationText, 0)
	require.NoError(t, err)

	assert.Equal(t, result.ChunkCount, result.EmbeddedCount)
	assert.Len(t, f.vectors.added, result.ChunkCount)

	chunks, err := f.store.GetChunks(ctx, result.DocumentID)
	require.NoError(t, err)
	for _, chunk := range chunks {
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, chunk.Embedding)
	}
}

func TestIngestService_Ingest_EmbeddingFailureDegrades(t *testing.T) {
	embedder := &mockEmbedder{embedding: []float32{0.1}, batchErr: errors.New("connection refused")}
	f := newIngestFixture(t, embedder)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, "/docs/expertise.pdf", valuationText, 0)
	require.NoError(t, err)

	// Chunks are stored and lexically indexed, just without vectors.
	assert.Zero(t, result.EmbeddedCount)
	assert.Empty(t, f.vectors.added)
	assert.Len(t, f.lexical.indexed, result.ChunkCount)
}

func TestIngestService_Ingest_LexicalIndexFailureFails(t *testing.T) {
	f := newIngestFixture(t, nil)
	f.lexical.indexErr = errors.New("fts corrupt")

	_, err := f.svc.Ingest(context.Background(), "/docs/expertise.pdf", valuationText, 0)
	assert.Error(t, err)
}

func TestIngestService_Ingest_ShortText(t *testing.T) {
	f := newIngestFixture(t, nil)

	result, err := f.svc.Ingest(context.Background(), "/docs/note.txt", "Courte note.", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunkCount)
}

func TestEstimatePage(t *testing.T) {
	assert.Nil(t, estimatePage(0, 1000, 0))
	assert.Nil(t, estimatePage(0, 0, 5))

	first := estimatePage(0, 1000, 4)
	require.NotNil(t, first)
	assert.Equal(t, 1, *first)

	mid := estimatePage(500, 1000, 4)
	require.NotNil(t, mid)
	assert.Equal(t, 3, *mid)

	last := estimatePage(999, 1000, 4)
	require.NotNil(t, last)
	assert.Equal(t, 4, *last)
}

func chunkIDs(chunks []domain.Chunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	return ids
}
