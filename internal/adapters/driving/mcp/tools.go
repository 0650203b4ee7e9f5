package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query          string   `json:"query" jsonschema:"the search query to find document chunks"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	DocType        string   `json:"doc_type,omitempty" jsonschema:"filter on detected document type (evaluation, contrat, rapport...)"`
	Category       string   `json:"category,omitempty" jsonschema:"filter on document category (immobilier, juridique, financier...)"`
	Commune        string   `json:"commune,omitempty" jsonschema:"filter on Swiss commune"`
	Canton         string   `json:"canton,omitempty" jsonschema:"filter on Swiss canton"`
	Tags           []string `json:"tags,omitempty" jsonschema:"match documents carrying at least one of these tags"`
	SemanticWeight float64  `json:"semantic_weight,omitempty" jsonschema:"weight of the semantic score during fusion (default 0.6)"`
	LexicalWeight  float64  `json:"lexical_weight,omitempty" jsonschema:"weight of the lexical score during fusion (default 0.4)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
	Status  string               `json:"status"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID    string  `json:"document_id"`
	ChunkID       string  `json:"chunk_id"`
	FileName      string  `json:"file_name"`
	DocType       string  `json:"type_document"`
	Category      string  `json:"categorie"`
	Commune       string  `json:"commune,omitempty"`
	Canton        string  `json:"canton,omitempty"`
	CombinedScore float64 `json:"score"`
	SemanticScore float64 `json:"score_semantique"`
	LexicalScore  float64 `json:"score_lexical"`
	Content       string  `json:"content,omitempty"`
}

// StatsInput is the input schema for the stats tools. Both take no
// arguments.
type StatsInput struct{}

// CategoryStatsOutput is the output schema for the category stats tool.
type CategoryStatsOutput struct {
	Categories []CategoryStatOutput `json:"categories"`
}

// CategoryStatOutput is one per-category aggregate row.
type CategoryStatOutput struct {
	Category        string  `json:"categorie"`
	DocumentCount   int     `json:"nombre_documents"`
	ChunkCount      int     `json:"nombre_chunks"`
	AvgCompleteness float64 `json:"completude_moyenne"`
	AvgRichness     float64 `json:"richesse_moyenne"`
	TotalAmount     float64 `json:"montant_total"`
}

// LocationStatsOutput is the output schema for the location stats tool.
type LocationStatsOutput struct {
	Locations []LocationStatOutput `json:"locations"`
}

// LocationStatOutput is one per-location aggregate row.
type LocationStatOutput struct {
	Commune       string  `json:"commune"`
	Canton        string  `json:"canton"`
	DocumentCount int     `json:"nombre_documents"`
	AvgAmount     float64 `json:"montant_moyen"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Hybrid semantic and lexical search across all ingested documents",
	}, s.handleSearch)

	if s.ports.Stats != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats_by_category",
			Description: "Aggregate document statistics grouped by category",
		}, s.handleCategoryStats)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats_by_location",
			Description: "Aggregate document statistics grouped by commune and canton",
		}, s.handleLocationStats)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	query := domain.SearchQuery{
		Text:           input.Query,
		Limit:          input.Limit,
		SemanticWeight: input.SemanticWeight,
		LexicalWeight:  input.LexicalWeight,
		Filters: domain.SearchFilters{
			DocType:  input.DocType,
			Category: input.Category,
			Commune:  input.Commune,
			Canton:   input.Canton,
			Tags:     input.Tags,
		},
	}

	resp, err := s.ports.Search.Search(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(resp.Results)),
		Count:   len(resp.Results),
		Status:  string(resp.Status),
	}

	for i := range resp.Results {
		r := &resp.Results[i]
		output.Results[i] = SearchResultOutput{
			DocumentID:    r.Document.ID,
			ChunkID:       r.Chunk.ID,
			FileName:      r.Document.FileName,
			DocType:       r.Document.DocType,
			Category:      r.Document.Category,
			Commune:       r.Document.Commune,
			Canton:        r.Document.Canton,
			CombinedScore: r.CombinedScore,
			SemanticScore: r.SemanticScore,
			LexicalScore:  r.LexicalScore,
			Content:       r.Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleCategoryStats handles the stats_by_category tool invocation.
func (s *Server) handleCategoryStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, CategoryStatsOutput, error) {
	stats, err := s.ports.Stats.ByCategory(ctx)
	if err != nil {
		return nil, CategoryStatsOutput{}, err
	}

	output := CategoryStatsOutput{
		Categories: make([]CategoryStatOutput, len(stats)),
	}
	for i, st := range stats {
		output.Categories[i] = CategoryStatOutput{
			Category:        st.Category,
			DocumentCount:   st.DocumentCount,
			ChunkCount:      st.ChunkCount,
			AvgCompleteness: st.AvgCompleteness,
			AvgRichness:     st.AvgRichness,
			TotalAmount:     st.TotalAmount,
		}
	}

	return nil, output, nil
}

// handleLocationStats handles the stats_by_location tool invocation.
func (s *Server) handleLocationStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, LocationStatsOutput, error) {
	stats, err := s.ports.Stats.ByLocation(ctx)
	if err != nil {
		return nil, LocationStatsOutput{}, err
	}

	output := LocationStatsOutput{
		Locations: make([]LocationStatOutput, len(stats)),
	}
	for i, st := range stats {
		output.Locations[i] = LocationStatOutput{
			Commune:       st.Commune,
			Canton:        st.Canton,
			DocumentCount: st.DocumentCount,
			AvgAmount:     st.AvgAmount,
		}
	}

	return nil, output, nil
}

// formatDate renders a nullable date for tool output.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
