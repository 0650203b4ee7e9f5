// Package memory provides in-memory implementations of the storage
// ports, used in tests and as a reference for the SQLite adapter's
// semantics.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interfaces.
var (
	_ driven.DocumentStore = (*DocumentStore)(nil)
	_ driven.StatsStore    = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore
// and driven.StatsStore. Writes mimic the SQLite adapter: SaveGraph
// replaces a document's chunks and entities atomically, and tag usage
// counters follow document links.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	entities  map[string][]domain.EntityMention
	tags      map[string]domain.Tag
	docTags   map[string][]string

	categoryStats []domain.CategoryStat
	locationStats []domain.LocationStat
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
		entities:  make(map[string][]domain.EntityMention),
		tags:      make(map[string]domain.Tag),
		docTags:   make(map[string][]string),
	}
}

// SaveGraph stores or replaces a document graph.
func (s *DocumentStore) SaveGraph(_ context.Context, graph *driven.DocumentGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docID := graph.Document.ID
	s.unlinkTagsLocked(docID)

	s.documents[docID] = graph.Document
	s.chunks[docID] = append([]domain.Chunk(nil), graph.Chunks...)
	s.entities[docID] = append([]domain.EntityMention(nil), graph.Entities...)

	names := make([]string, 0, len(graph.Tags))
	for name, category := range graph.Tags {
		tag, ok := s.tags[name]
		if !ok {
			tag = domain.Tag{Name: name, Category: category}
		}
		tag.UsageCount++
		s.tags[name] = tag
		names = append(names, name)
	}
	sort.Strings(names)
	s.docTags[docID] = names

	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByPath retrieves a document by its source path.
func (s *DocumentStore) GetDocumentByPath(_ context.Context, path string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.Path == path {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves all chunks for a document, ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := append([]domain.Chunk(nil), s.chunks[documentID]...)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// GetEntities retrieves the entity mentions of a document.
func (s *DocumentStore) GetEntities(_ context.Context, documentID string) ([]domain.EntityMention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EntityMention(nil), s.entities[documentID]...), nil
}

// ListDocuments returns all documents without their content.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		doc.Content = ""
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// ListTags returns all known tags with usage counters.
func (s *DocumentStore) ListTags(_ context.Context) ([]domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]domain.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		if tag.UsageCount > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// SaveEmbeddings stores embedding vectors for known chunks.
func (s *DocumentStore) SaveEmbeddings(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, update := range chunks {
		stored := s.chunks[update.DocumentID]
		for i := range stored {
			if stored[i].ID == update.ID {
				stored[i].Embedding = append([]float32(nil), update.Embedding...)
			}
		}
	}
	return nil
}

// DeleteDocument removes a document; chunks, entities and tag links
// cascade.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	s.unlinkTagsLocked(id)
	delete(s.documents, id)
	delete(s.chunks, id)
	delete(s.entities, id)
	return nil
}

// RefreshStats recomputes both projections from document rows.
func (s *DocumentStore) RefreshStats(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	byCategory := make(map[string]*domain.CategoryStat)
	byLocation := make(map[string]*domain.LocationStat)

	for id, doc := range s.documents {
		category := doc.Category
		if category == "" {
			category = "autre"
		}
		cs, ok := byCategory[category]
		if !ok {
			cs = &domain.CategoryStat{Category: category, RefreshedAt: now}
			byCategory[category] = cs
		}
		cs.DocumentCount++
		cs.ChunkCount += len(s.chunks[id])
		cs.AvgCompleteness += doc.CompletenessScore
		cs.AvgRichness += doc.RichnessScore
		if doc.PrincipalAmount != nil {
			cs.TotalAmount += *doc.PrincipalAmount
		}

		if doc.Commune != "" || doc.Canton != "" {
			key := doc.Commune + "|" + doc.Canton
			ls, ok := byLocation[key]
			if !ok {
				ls = &domain.LocationStat{Commune: doc.Commune, Canton: doc.Canton, RefreshedAt: now}
				byLocation[key] = ls
			}
			ls.DocumentCount++
			if doc.PrincipalAmount != nil {
				ls.AvgAmount += *doc.PrincipalAmount
			}
		}
	}

	s.categoryStats = s.categoryStats[:0]
	for _, cs := range byCategory {
		cs.AvgCompleteness /= float64(cs.DocumentCount)
		cs.AvgRichness /= float64(cs.DocumentCount)
		s.categoryStats = append(s.categoryStats, *cs)
	}
	sort.Slice(s.categoryStats, func(i, j int) bool {
		return s.categoryStats[i].Category < s.categoryStats[j].Category
	})

	s.locationStats = s.locationStats[:0]
	for _, ls := range byLocation {
		ls.AvgAmount /= float64(ls.DocumentCount)
		s.locationStats = append(s.locationStats, *ls)
	}
	sort.Slice(s.locationStats, func(i, j int) bool {
		if s.locationStats[i].Canton != s.locationStats[j].Canton {
			return s.locationStats[i].Canton < s.locationStats[j].Canton
		}
		return s.locationStats[i].Commune < s.locationStats[j].Commune
	})

	return nil
}

// CategoryStats returns the per-category projection.
func (s *DocumentStore) CategoryStats(_ context.Context) ([]domain.CategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CategoryStat(nil), s.categoryStats...), nil
}

// LocationStats returns the per-location projection.
func (s *DocumentStore) LocationStats(_ context.Context) ([]domain.LocationStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LocationStat(nil), s.locationStats...), nil
}

// unlinkTagsLocked decrements tag usage for a document's current links.
func (s *DocumentStore) unlinkTagsLocked(docID string) {
	for _, name := range s.docTags[docID] {
		tag, ok := s.tags[name]
		if !ok {
			continue
		}
		tag.UsageCount--
		s.tags[name] = tag
	}
	delete(s.docTags, docID)
}
