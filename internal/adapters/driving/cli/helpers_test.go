package cli

import (
	"context"
	"errors"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
)

// mockSearchService returns a fixed response.
type mockSearchService struct {
	response *domain.SearchResponse
	query    domain.SearchQuery
}

func (m *mockSearchService) Search(
	_ context.Context,
	query domain.SearchQuery,
) (*domain.SearchResponse, error) {
	m.query = query
	if m.response == nil {
		return &domain.SearchResponse{Status: domain.SearchOK}, nil
	}
	return m.response, nil
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context,
	_ domain.SearchQuery,
) (*domain.SearchResponse, error) {
	return nil, errors.New("index unavailable")
}

// mockIngestService records the last ingestion.
type mockIngestService struct {
	result   *driving.IngestResult
	err      error
	lastPath string
	lastText string
}

func (m *mockIngestService) Ingest(
	_ context.Context,
	path, text string,
	_ int,
) (*driving.IngestResult, error) {
	m.lastPath = path
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &driving.IngestResult{DocumentID: "doc-1", ChunkCount: 1}, nil
	}
	return m.result, nil
}

// mockDocumentService serves fixed documents.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	chunks    []domain.Chunk
	entities  []domain.EntityMention
	deleted   []string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.document, nil
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Entities(_ context.Context, _ string) ([]domain.EntityMention, error) {
	return m.entities, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockStatsService serves fixed aggregates.
type mockStatsService struct {
	categories []domain.CategoryStat
	locations  []domain.LocationStat
	refreshed  bool
	err        error
}

func (m *mockStatsService) Refresh(_ context.Context) error {
	m.refreshed = true
	return m.err
}

func (m *mockStatsService) ByCategory(_ context.Context) ([]domain.CategoryStat, error) {
	return m.categories, m.err
}

func (m *mockStatsService) ByLocation(_ context.Context) ([]domain.LocationStat, error) {
	return m.locations, m.err
}

// mockConfigStore is an in-memory ConfigStore.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.values[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/dossier-test-config.toml" }

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldSearch := searchService
	oldDocument := documentService
	oldStats := statsService
	oldConfig := configStore

	sampleResponse := &domain.SearchResponse{
		Status: domain.SearchOK,
		Results: []domain.RankedResult{
			{
				Document: domain.Document{
					ID:       "doc-1",
					FileName: "expertise_aigle.pdf",
					DocType:  "evaluation",
					Category: "immobilier",
					Commune:  "Aigle",
					Canton:   "Vaud",
				},
				Chunk: domain.Chunk{
					ID:      "doc-1-c0",
					Content: "La valeur venale est estimee a CHF 14'850'000.",
				},
				CombinedScore: 0.95,
				SemanticScore: 0.9,
				LexicalScore:  1.0,
			},
		},
	}

	ingestService = &mockIngestService{}
	searchService = &mockSearchService{response: sampleResponse}
	documentService = &mockDocumentService{}
	statsService = &mockStatsService{}
	configStore = newMockConfigStore()

	return func() {
		ingestService = oldIngest
		searchService = oldSearch
		documentService = oldDocument
		statsService = oldStats
		configStore = oldConfig
	}
}
