package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

var (
	searchLimit          int
	searchJSON           bool
	searchDocType        string
	searchCategory       string
	searchCommune        string
	searchCanton         string
	searchTags           []string
	searchFrom           string
	searchTo             string
	searchSemanticWeight float64
	searchLexicalWeight  float64
	searchMinSimilarity  float64
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Performs hybrid search across all ingested documents.
Combines keyword (BM25) and semantic (vector) search, fusing both
scores into one ranked list. Filters narrow the candidate set before
scoring.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchDocType, "type", "", "filter on document type (evaluation, contrat, rapport...)")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "filter on category (immobilier, juridique, financier...)")
	searchCmd.Flags().StringVar(&searchCommune, "commune", "", "filter on commune")
	searchCmd.Flags().StringVar(&searchCanton, "canton", "", "filter on canton")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "filter on tags (repeatable, matches any)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "earliest principal date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "latest principal date (YYYY-MM-DD)")
	searchCmd.Flags().Float64Var(&searchSemanticWeight, "semantic-weight", 0, "semantic score weight (default 0.6)")
	searchCmd.Flags().Float64Var(&searchLexicalWeight, "lexical-weight", 0, "lexical score weight (default 0.4)")
	searchCmd.Flags().Float64Var(&searchMinSimilarity, "min-similarity", 0, "exclude semantic candidates below this cosine similarity")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	filters := domain.SearchFilters{
		DocType:  searchDocType,
		Category: searchCategory,
		Commune:  searchCommune,
		Canton:   searchCanton,
		Tags:     searchTags,
	}

	var err error
	if filters.DateFrom, err = parseDateFlag(searchFrom); err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	if filters.DateTo, err = parseDateFlag(searchTo); err != nil {
		return fmt.Errorf("invalid --to date: %w", err)
	}

	query := domain.SearchQuery{
		Text:           args[0],
		Filters:        filters,
		Limit:          searchLimit,
		SemanticWeight: searchSemanticWeight,
		LexicalWeight:  searchLexicalWeight,
		MinSimilarity:  searchMinSimilarity,
	}

	ctx := context.Background()
	resp, err := searchService.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}

	return outputSearchTable(cmd, resp)
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// searchResultJSON is the JSON shape of one result row.
type searchResultJSON struct {
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
	Content       string  `json:"content"`
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	rows := make([]searchResultJSON, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		rows[i] = searchResultJSON{
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

	out := struct {
		Results []searchResultJSON `json:"results"`
		Status  string             `json:"status"`
	}{Results: rows, Status: string(resp.Status)}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		cmd.Printf("No results found (%s).\n", resp.Status)
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range resp.Results {
		r := &resp.Results[i]

		name := r.Document.FileName
		if name == "" {
			name = r.Document.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, name, r.CombinedScore)
		if r.Document.DocType != "" || r.Document.Category != "" {
			cmd.Printf("      %s / %s\n", r.Document.DocType, r.Document.Category)
		}
		if r.Document.Commune != "" {
			cmd.Printf("      %s (%s)\n", r.Document.Commune, r.Document.Canton)
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content, 160))
		cmd.Println()
	}

	if resp.Status != domain.SearchOK {
		cmd.Printf("Note: %s\n", resp.Status)
	}

	return nil
}

// snippet truncates content to at most n runes for table display.
func snippet(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}
