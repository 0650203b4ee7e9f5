package mcp

import (
	"context"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	response *domain.SearchResponse
	query    domain.SearchQuery
	err      error
}

func (m *mockSearchService) Search(
	_ context.Context,
	query domain.SearchQuery,
) (*domain.SearchResponse, error) {
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	if m.response == nil {
		return &domain.SearchResponse{Status: domain.SearchOK}, nil
	}
	return m.response, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	chunks    []domain.Chunk
	entities  []domain.EntityMention
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

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	categories []domain.CategoryStat
	locations  []domain.LocationStat
	err        error
}

func (m *mockStatsService) Refresh(_ context.Context) error {
	return m.err
}

func (m *mockStatsService) ByCategory(_ context.Context) ([]domain.CategoryStat, error) {
	return m.categories, m.err
}

func (m *mockStatsService) ByLocation(_ context.Context) ([]domain.LocationStat, error) {
	return m.locations, m.err
}
