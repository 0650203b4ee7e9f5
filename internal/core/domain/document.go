package domain

import "time"

// ConfidenceLevel bands the completeness of extracted metadata.
type ConfidenceLevel string

// Confidence levels assigned from the completeness score.
const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Document represents an ingested document with extracted metadata.
// It is the canonical representation after enrichment.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the original location of the source file. Unique per store.
	Path string

	// FileName is the base name of the source file.
	FileName string

	// Content is the full extracted text before chunking.
	Content string

	// SizeBytes is the size of the source text in bytes.
	SizeBytes int64

	// PageCount is the number of pages reported by the extraction
	// collaborator, 0 when unknown.
	PageCount int

	// WordCount and CharCount describe the extracted text.
	WordCount int
	CharCount int

	// DocType is the detected document type (evaluation, contrat, rapport...).
	DocType string

	// Category and SubCategory classify the document
	// (immobilier, juridique, financier...).
	Category    string
	SubCategory string

	// Tags are derived label names. The Tag entity carries the
	// category and usage counter.
	Tags []string

	// PrincipalAmount is the most salient monetary amount found in the
	// text; MinAmount and MaxAmount bound all detected amounts.
	// Nil when no amount was detected.
	PrincipalAmount *float64
	MinAmount       *float64
	MaxAmount       *float64

	// Currency is the ISO code of the detected amounts (CHF, EUR...).
	Currency string

	// PrincipalDate is the most salient date; EarliestDate and
	// LatestDate bound all detected dates.
	PrincipalDate *time.Time
	EarliestDate  *time.Time
	LatestDate    *time.Time

	// Parties are the contractual parties detected in the text
	// (bailleur, locataire, vendeur, acheteur and company names).
	Parties []string

	// Commune, Canton and PostalCode locate the subject of the document.
	Commune    string
	Canton     string
	PostalCode string

	// SurfaceM2 is the principal surface area, nil when not detected.
	SurfaceM2 *float64

	// RoomCount is the number of rooms, nil when not detected.
	// Swiss listings count half rooms, hence float.
	RoomCount *float64

	// Language is the detected language code (fr, de, en).
	Language string

	// CompletenessScore is the fraction of the expected metadata
	// checklist actually populated, scaled to 0-100.
	CompletenessScore float64

	// RichnessScore measures the density and diversity of extractable
	// signals, scaled to 0-100.
	RichnessScore float64

	// Confidence bands the completeness score.
	Confidence ConfidenceLevel

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// ChunkType classifies the structural role of a chunk.
type ChunkType string

// Chunk type values assigned by the enricher.
const (
	ChunkHeading ChunkType = "heading"
	ChunkBody    ChunkType = "body"
	ChunkTable   ChunkType = "table"
	ChunkList    ChunkType = "list"
	ChunkFooter  ChunkType = "footer"
)

// Chunk represents a searchable unit within a document.
// Documents are split into overlapping chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the zero-based ordinal position within the document.
	// (DocumentID, Index) is unique.
	Index int

	// Content is the text content of this chunk.
	Content string

	// Size is the content length in runes.
	Size int

	// StartOffset and EndOffset are the rune offsets of the chunk's
	// span in the parent document text. Offsets increase strictly
	// with ascending Index.
	StartOffset int
	EndOffset   int

	// Page is the page number the chunk starts on, nil when unknown.
	Page *int

	// SectionTitle and SectionLevel describe the enclosing section
	// when one was detected. Level 0 means no section.
	SectionTitle string
	SectionLevel int

	// Type is the structural classification of the chunk.
	Type ChunkType

	// Content-signal flags set by the enricher.
	HasTables  bool
	HasNumbers bool
	HasDates   bool
	HasAmounts bool

	// Entities and Locations are mention strings found within the
	// chunk's own text.
	Entities  []string
	Locations []string

	// ImportanceScore weighs the chunk's retrieval value in [0,1].
	ImportanceScore float64

	// ContextBefore and ContextAfter hold the text immediately
	// surrounding the chunk's span, bounded by the segmenter's
	// context window. Stored for prompt context, never embedded.
	ContextBefore string
	ContextAfter  string

	// Embedding is the vector representation for semantic search.
	// Nil until the embedding collaborator has processed the chunk.
	Embedding []float32
}

// EntityType tags the kind of an extracted entity.
type EntityType string

// Entity types produced by the enrichment extractors.
const (
	EntityOrganization EntityType = "organization"
	EntityPerson       EntityType = "person"
	EntityLocation     EntityType = "location"
	EntityRole         EntityType = "role"
)

// EntityMention is a named entity observed in a document, deduplicated
// by normalized value across all chunks.
type EntityMention struct {
	// ID is the unique identifier for the mention record.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Type tags the kind of entity.
	Type EntityType

	// Value is the raw surface form as found in the text.
	Value string

	// Normalized is the lowercased, trimmed form used for deduplication.
	Normalized string

	// MentionCount is the number of occurrences across the document.
	MentionCount int

	// ChunkIndexes lists the chunk indices the entity was observed in.
	ChunkIndexes []int
}

// Tag is a reusable label attached to documents (many-to-many).
type Tag struct {
	// Name identifies the tag. Unique per store.
	Name string

	// Category groups tags (classification, geo, period, content, quality).
	Category string

	// UsageCount is the number of documents carrying the tag.
	UsageCount int
}
