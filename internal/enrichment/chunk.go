package enrichment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// ImportanceWeights are the tunable constants behind chunk importance
// scoring. They are empirically chosen, not derived from labeled data.
type ImportanceWeights struct {
	Base      float64
	Tables    float64
	Numbers   float64
	Dates     float64
	Amounts   float64
	Entity    float64
	EntityCap float64
	Position  float64

	ShortPenalty float64
	LongPenalty  float64

	// Length thresholds in runes for the short and long penalties.
	ShortBelow int
	LongAbove  int
}

// DefaultImportanceWeights returns the stock weighting.
func DefaultImportanceWeights() ImportanceWeights {
	return ImportanceWeights{
		Base:         0.5,
		Tables:       0.1,
		Numbers:      0.05,
		Dates:        0.1,
		Amounts:      0.15,
		Entity:       0.02,
		EntityCap:    0.1,
		Position:     0.05,
		ShortPenalty: 0.1,
		LongPenalty:  0.05,
		ShortBelow:   100,
		LongAbove:    2000,
	}
}

// ChunkFields holds everything chunk-level enrichment derives from a
// single chunk's text.
type ChunkFields struct {
	Type         domain.ChunkType
	SectionTitle string
	SectionLevel int

	HasTables  bool
	HasNumbers bool
	HasDates   bool
	HasAmounts bool

	Entities  []string
	Locations []string

	ImportanceScore float64
}

const maxChunkEntities = 10

// EnrichChunk derives metadata for one chunk. Index and total position
// the chunk within its document; earlier chunks score slightly higher.
func (e *Enricher) EnrichChunk(text string, index, total int) ChunkFields {
	fields := ChunkFields{
		HasTables:  containsTable(text),
		HasNumbers: strings.ContainsFunc(text, unicode.IsDigit),
		HasDates:   len(extractDates(text)) > 0,
		HasAmounts: len(extractAmounts(text)) > 0,
		Entities:   chunkEntities(text),
		Locations:  chunkLocations(text),
	}

	fields.Type = detectChunkType(text)
	fields.SectionTitle, fields.SectionLevel = detectSection(text)
	fields.ImportanceScore = e.importance(text, &fields, index, total)

	return fields
}

// importance combines the content-signal flags into a [0,1] score.
// Amounts weigh most, then dates and tables; chunks near the document
// start get a small position bonus.
func (e *Enricher) importance(text string, fields *ChunkFields, index, total int) float64 {
	w := e.weights
	score := w.Base

	if fields.HasTables {
		score += w.Tables
	}
	if fields.HasNumbers {
		score += w.Numbers
	}
	if fields.HasDates {
		score += w.Dates
	}
	if fields.HasAmounts {
		score += w.Amounts
	}
	if n := len(fields.Entities); n > 0 {
		bonus := float64(n) * w.Entity
		if bonus > w.EntityCap {
			bonus = w.EntityCap
		}
		score += bonus
	}
	if total > 1 {
		score += w.Position * (1.0 - float64(index)/float64(total-1))
	} else {
		score += w.Position
	}

	length := utf8.RuneCountInString(text)
	if length < w.ShortBelow {
		score -= w.ShortPenalty
	} else if length > w.LongAbove {
		score -= w.LongPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// detectChunkType classifies a chunk as heading, table, list, footer or
// body from cheap structural cues.
func detectChunkType(text string) domain.ChunkType {
	trimmed := strings.TrimSpace(text)
	lines := strings.Split(trimmed, "\n")

	if len(lines) <= 2 && utf8.RuneCountInString(trimmed) < 100 {
		return domain.ChunkHeading
	}
	if containsTable(text) {
		return domain.ChunkTable
	}
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "- ") || strings.HasPrefix(l, "* ") ||
			strings.HasPrefix(l, "• ") || startsNumbered(l) {
			return domain.ChunkList
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range []string{"copyright", "©", "tous droits"} {
		if strings.Contains(lower, kw) {
			return domain.ChunkFooter
		}
	}
	return domain.ChunkBody
}

func containsTable(text string) bool {
	return strings.Count(text, "|") > 5 || strings.Count(text, "\t") > 5
}

func startsNumbered(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && line[i] == '.'
}

// detectSection treats a short first line with no terminating period as
// a section title. All-caps titles are level 1, short titles level 2,
// the rest level 3.
func detectSection(text string) (string, int) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return "", 0
	}
	first := strings.TrimSpace(lines[0])
	if first == "" || utf8.RuneCountInString(first) >= 100 || strings.HasSuffix(first, ".") {
		return "", 0
	}
	switch {
	case first == strings.ToUpper(first) && strings.ContainsFunc(first, unicode.IsLetter):
		return first, 1
	case utf8.RuneCountInString(first) < 50:
		return first, 2
	default:
		return first, 3
	}
}

// chunkEntities returns company names found in the chunk, deduplicated
// and capped.
func chunkEntities(text string) []string {
	seen := make(map[string]bool)
	var entities []string
	for _, m := range extractParties(text) {
		if m.Role != "" {
			continue
		}
		if seen[m.Normalized] {
			continue
		}
		seen[m.Normalized] = true
		entities = append(entities, m.Normalized)
		if len(entities) == maxChunkEntities {
			break
		}
	}
	return entities
}

// chunkLocations returns commune and canton names found in the chunk.
func chunkLocations(text string) []string {
	seen := make(map[string]bool)
	var locations []string
	for _, m := range extractLocations(text) {
		if m.Region == "" {
			// Postal codes are kept at document level only.
			continue
		}
		if seen[m.Normalized] {
			continue
		}
		seen[m.Normalized] = true
		locations = append(locations, m.Normalized)
	}
	return locations
}
