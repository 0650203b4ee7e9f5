package domain

import "time"

// Default search parameters.
const (
	// DefaultSearchLimit is used when the caller does not set a limit.
	DefaultSearchLimit = 10

	// DefaultSemanticWeight and DefaultLexicalWeight are the fusion
	// weights used when the caller leaves both unset.
	DefaultSemanticWeight = 0.6
	DefaultLexicalWeight  = 0.4
)

// SearchFilters restricts search candidates before scoring.
// Filters combine as a conjunction: a candidate must satisfy every
// filter that is set. An unset filter imposes no constraint.
type SearchFilters struct {
	// DocType filters on the detected document type.
	DocType string

	// Category filters on the document category.
	Category string

	// Commune and Canton filter on location.
	Commune string
	Canton  string

	// Tags matches documents carrying at least one of the given tags.
	Tags []string

	// DateFrom and DateTo bound the document's principal date.
	DateFrom *time.Time
	DateTo   *time.Time
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.DocType == "" && f.Category == "" &&
		f.Commune == "" && f.Canton == "" &&
		len(f.Tags) == 0 && f.DateFrom == nil && f.DateTo == nil
}

// SearchQuery describes one hybrid search request.
// At least one of Text or Vector must be supplied.
type SearchQuery struct {
	// Text is the literal query for the lexical side. When the
	// embedding service is configured it is also embedded for the
	// semantic side unless Vector is already set.
	Text string

	// Vector is the query embedding for the semantic side.
	Vector []float32

	// Filters restrict candidates before scoring.
	Filters SearchFilters

	// Limit caps the number of fused results. Defaults to
	// DefaultSearchLimit when <= 0.
	Limit int

	// SemanticWeight and LexicalWeight multiply the per-side scores
	// during fusion. They are linear multipliers, not a convex
	// combination: the sum is deliberately not normalized.
	SemanticWeight float64
	LexicalWeight  float64

	// MinSimilarity excludes semantic candidates below this raw
	// cosine similarity outright. Zero disables the threshold.
	MinSimilarity float64
}

// RankedResult is one fused search hit.
type RankedResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Document is the chunk's parent document.
	Document Document

	// CombinedScore is the fused relevance used for ordering.
	CombinedScore float64

	// SemanticScore and LexicalScore are the per-side contributions
	// after normalization, zero for the side that did not propose
	// the candidate.
	SemanticScore float64
	LexicalScore  float64
}

// SearchStatus explains a degraded or empty search outcome.
type SearchStatus string

// Search statuses reported alongside results.
const (
	// SearchOK means both requested signals contributed.
	SearchOK SearchStatus = "ok"

	// SearchNoQuery means neither query input was supplied.
	SearchNoQuery SearchStatus = "no query supplied"

	// SearchLexicalOnly means the semantic side contributed nothing
	// (no embeddings yet, or no embedding service).
	SearchLexicalOnly SearchStatus = "lexical only"

	// SearchSemanticOnly means the lexical side contributed nothing.
	SearchSemanticOnly SearchStatus = "semantic only"
)

// SearchResponse carries the ranked hits and an explanatory status.
type SearchResponse struct {
	// Results are ordered by CombinedScore descending, ties broken
	// by chunk importance descending.
	Results []RankedResult

	// Status explains empty or degraded outcomes.
	Status SearchStatus
}

// CategoryStat is one row of the per-category aggregate projection.
type CategoryStat struct {
	Category        string
	DocumentCount   int
	ChunkCount      int
	AvgCompleteness float64
	AvgRichness     float64
	TotalAmount     float64
	RefreshedAt     time.Time
}

// LocationStat is one row of the per-location aggregate projection.
type LocationStat struct {
	Commune       string
	Canton        string
	DocumentCount int
	AvgAmount     float64
	RefreshedAt   time.Time
}
