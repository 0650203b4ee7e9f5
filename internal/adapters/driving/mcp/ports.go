package mcp

import (
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides hybrid search capabilities.
	Search driving.SearchService

	// Document exposes stored documents.
	Document driving.DocumentService

	// Stats exposes the aggregate projections.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Document and Stats are optional
	return nil
}
