package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
	"github.com/dossier-labs/dossier-cli/internal/enrichment"
	"github.com/dossier-labs/dossier-cli/internal/logger"
	"github.com/dossier-labs/dossier-cli/internal/postprocessors/segmenter"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the pipeline from extracted text to a persisted,
// indexed document graph: segment, enrich, build, save, embed, index.
type IngestService struct {
	docStore driven.DocumentStore
	lexical  driven.LexicalIndex
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService

	seg      *segmenter.Segmenter
	enricher *enrichment.Enricher
}

// NewIngestService creates a new ingest service. The embedder is
// optional (can be nil): without it chunks are stored and lexically
// indexed but carry no embedding until a later pass.
func NewIngestService(
	docStore driven.DocumentStore,
	lexical driven.LexicalIndex,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	seg *segmenter.Segmenter,
	enricher *enrichment.Enricher,
) *IngestService {
	return &IngestService{
		docStore: docStore,
		lexical:  lexical,
		vectors:  vectors,
		embedder: embedder,
		seg:      seg,
		enricher: enricher,
	}
}

// Ingest processes one extracted document text. Re-ingesting a known
// path replaces the document's chunks and entities atomically and
// refreshes both indexes.
func (s *IngestService) Ingest(ctx context.Context, path, text string, pageCount int) (*driving.IngestResult, error) {
	logger.Section("Ingest")

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	logger.Debug("Path: %s (%d bytes, %d pages)", path, len(text), pageCount)

	existing, err := s.docStore.GetDocumentByPath(ctx, path)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("lookup document: %w", err)
	}

	graph := s.buildGraph(path, text, pageCount, existing)
	logger.Debug("Built graph: %d chunks, %d entities, %d tags",
		len(graph.Chunks), len(graph.Entities), len(graph.Tags))

	// Drop stale index entries before the replacing write.
	if existing != nil {
		if err := s.deindexChunks(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	if err := s.docStore.SaveGraph(ctx, graph); err != nil {
		return nil, fmt.Errorf("save document graph: %w", err)
	}

	for _, chunk := range graph.Chunks {
		if err := s.lexical.Index(ctx, chunk); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", chunk.Index, err)
		}
	}

	embedded, err := s.embedChunks(ctx, graph.Chunks)
	if err != nil {
		return nil, err
	}

	result := &driving.IngestResult{
		DocumentID:    graph.Document.ID,
		ChunkCount:    len(graph.Chunks),
		EntityCount:   len(graph.Entities),
		EmbeddedCount: embedded,
		Updated:       existing != nil,
		Document:      graph.Document,
	}
	logger.Info("Ingested %s: %d chunks, %d embedded", filepath.Base(path), result.ChunkCount, embedded)
	return result, nil
}

// buildGraph assembles the full document graph from segmenter and
// enricher output. Pure assembly: no I/O happens here.
func (s *IngestService) buildGraph(path, text string, pageCount int, existing *domain.Document) *driven.DocumentGraph {
	now := time.Now().UTC()
	fileName := filepath.Base(path)

	docID := uuid.NewString()
	createdAt := now
	if existing != nil {
		docID = existing.ID
		createdAt = existing.CreatedAt
	}

	fields := s.enricher.EnrichDocument(text, fileName)
	spans := s.seg.Segment(text)

	chunks := make([]domain.Chunk, len(spans))
	for i, span := range spans {
		cf := s.enricher.EnrichChunk(span.Content, span.Index, len(spans))

		chunks[i] = domain.Chunk{
			ID:              uuid.NewString(),
			DocumentID:      docID,
			Index:           span.Index,
			Content:         span.Content,
			Size:            span.End - span.Start,
			StartOffset:     span.Start,
			EndOffset:       span.End,
			Page:            estimatePage(span.Start, fields.CharCount, pageCount),
			SectionTitle:    cf.SectionTitle,
			SectionLevel:    cf.SectionLevel,
			Type:            cf.Type,
			HasTables:       cf.HasTables,
			HasNumbers:      cf.HasNumbers,
			HasDates:        cf.HasDates,
			HasAmounts:      cf.HasAmounts,
			Entities:        cf.Entities,
			Locations:       cf.Locations,
			ImportanceScore: cf.ImportanceScore,
			ContextBefore:   span.ContextBefore,
			ContextAfter:    span.ContextAfter,
		}
	}

	doc := domain.Document{
		ID:                docID,
		Path:              path,
		FileName:          fileName,
		Content:           text,
		SizeBytes:         int64(len(text)),
		PageCount:         pageCount,
		WordCount:         fields.WordCount,
		CharCount:         fields.CharCount,
		DocType:           fields.DocType,
		Category:          fields.Category,
		SubCategory:       fields.SubCategory,
		PrincipalAmount:   fields.PrincipalAmount,
		MinAmount:         fields.MinAmount,
		MaxAmount:         fields.MaxAmount,
		Currency:          fields.Currency,
		PrincipalDate:     fields.PrincipalDate,
		EarliestDate:      fields.EarliestDate,
		LatestDate:        fields.LatestDate,
		Parties:           fields.Parties,
		Commune:           fields.Commune,
		Canton:            fields.Canton,
		PostalCode:        fields.PostalCode,
		SurfaceM2:         fields.SurfaceM2,
		RoomCount:         fields.RoomCount,
		Language:          fields.Language,
		CompletenessScore: fields.CompletenessScore,
		RichnessScore:     fields.RichnessScore,
		Confidence:        fields.Confidence,
		CreatedAt:         createdAt,
		UpdatedAt:         now,
	}

	entities := buildEntities(docID, text, chunks)
	tags := deriveTags(&doc, fields.Years, entities)
	doc.Tags = tagNames(tags)

	return &driven.DocumentGraph{
		Document: doc,
		Chunks:   chunks,
		Entities: entities,
		Tags:     tags,
	}
}

// embedChunks generates and stores embeddings for the given chunks.
// Embedding is a network collaborator: failure degrades to lexical
// only search with a warning instead of failing the ingest.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if s.embedder == nil || len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding failed, chunks stored without vectors: %v", err)
		return 0, nil
	}
	if len(vectors) != len(chunks) {
		logger.Warn("Embedding returned %d vectors for %d chunks, skipping", len(vectors), len(chunks))
		return 0, nil
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := s.docStore.SaveEmbeddings(ctx, chunks); err != nil {
		return 0, fmt.Errorf("save embeddings: %w", err)
	}
	for _, chunk := range chunks {
		if err := s.vectors.Add(ctx, chunk.ID, chunk.Embedding); err != nil {
			return 0, fmt.Errorf("add vector for chunk %d: %w", chunk.Index, err)
		}
	}

	return len(chunks), nil
}

// deindexChunks removes a document's chunks from both indexes.
func (s *IngestService) deindexChunks(ctx context.Context, documentID string) error {
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load previous chunks: %w", err)
	}
	for _, chunk := range chunks {
		if err := s.lexical.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("deindex chunk %d: %w", chunk.Index, err)
		}
		if err := s.vectors.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("remove vector for chunk %d: %w", chunk.Index, err)
		}
	}
	return nil
}

// estimatePage maps a rune offset to a page number assuming pages of
// roughly equal length. Nil when the extraction reported no pages.
func estimatePage(offset, totalRunes, pageCount int) *int {
	if pageCount <= 0 || totalRunes <= 0 {
		return nil
	}
	page := offset*pageCount/totalRunes + 1
	if page > pageCount {
		page = pageCount
	}
	return &page
}
