package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
	"github.com/dossier-labs/dossier-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes stored documents to the driving adapters.
type DocumentService struct {
	docStore driven.DocumentStore
	lexical  driven.LexicalIndex
	vectors  driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	lexical driven.LexicalIndex,
	vectors driven.VectorIndex,
) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		lexical:  lexical,
		vectors:  vectors,
	}
}

// List returns all documents without their content.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Chunks returns a document's chunks ordered by index.
func (s *DocumentService) Chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	chunks, err := s.docStore.GetChunks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	return chunks, nil
}

// Entities returns a document's entity mentions.
func (s *DocumentService) Entities(ctx context.Context, id string) ([]domain.EntityMention, error) {
	entities, err := s.docStore.GetEntities(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entities: %w", err)
	}
	return entities, nil
}

// Delete removes a document, its index entries, and everything
// derived from it. Store-side deletion cascades to chunks and
// entities.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	chunks, err := s.docStore.GetChunks(ctx, id)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}

	for _, chunk := range chunks {
		if err := s.lexical.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("deindex chunk %d: %w", chunk.Index, err)
		}
		if err := s.vectors.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("remove vector for chunk %d: %w", chunk.Index, err)
		}
	}

	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	logger.Info("Deleted document %s (%d chunks)", id, len(chunks))
	return nil
}
