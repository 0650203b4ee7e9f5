// Package enrichment derives structured metadata from raw document text.
// It provides pure pattern-based extraction of Swiss property signals
// (amounts, dates, locations, parties, surfaces) plus quality scoring,
// at document and chunk level.
package enrichment

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// languageSampleSize bounds how much text language detection reads.
const languageSampleSize = 5000

// classificationWindow bounds how much of the text opening is scanned
// for type and category keywords.
const classificationWindow = 3000

// Thresholds mapping completeness score to a confidence level.
const (
	confidenceMediumFloor = 40.0
	confidenceHighFloor   = 70.0
)

// DocumentFields holds everything document-level enrichment derives
// from raw text. All fields are optional: unmatched patterns leave them
// zero.
type DocumentFields struct {
	DocType     string
	Category    string
	SubCategory string

	PrincipalAmount *float64
	MinAmount       *float64
	MaxAmount       *float64
	Currency        string

	PrincipalDate *time.Time
	EarliestDate  *time.Time
	LatestDate    *time.Time

	Parties    []string
	Commune    string
	Canton     string
	PostalCode string

	SurfaceM2 *float64
	RoomCount *float64

	Language string
	Years    []int

	WordCount int
	CharCount int

	CompletenessScore float64
	RichnessScore     float64
	Confidence        domain.ConfidenceLevel
}

// Enricher derives document and chunk metadata via the extractor
// registry. Safe for concurrent use: it holds no mutable state.
type Enricher struct {
	weights ImportanceWeights
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithImportanceWeights overrides the chunk importance scoring weights.
func WithImportanceWeights(w ImportanceWeights) Option {
	return func(e *Enricher) {
		e.weights = w
	}
}

// New creates an Enricher with default importance weights.
func New(opts ...Option) *Enricher {
	e := &Enricher{weights: DefaultImportanceWeights()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var yearRe = regexp.MustCompile(`\b(19[0-9]{2}|20[0-9]{2})\b`)

// EnrichDocument scans a full document text plus its file name and
// returns the derived metadata. It is total over any input: empty text
// yields zero fields and zero scores.
func (e *Enricher) EnrichDocument(text, fileName string) DocumentFields {
	fields := DocumentFields{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
	if text == "" && fileName == "" {
		fields.Confidence = domain.ConfidenceLow
		return fields
	}

	found := ExtractAll(text)

	e.classify(&fields, text, fileName)
	e.aggregateAmounts(&fields, found[SignalAmount])
	e.aggregateDates(&fields, found[SignalDate])
	e.aggregateLocations(&fields, found[SignalLocation])
	e.aggregateParties(&fields, found[SignalParty])
	e.aggregateDimensions(&fields, found[SignalSurface], found[SignalRoom])

	fields.Years = mentionedYears(text)
	fields.Language = detectLanguage(text)

	fields.CompletenessScore = completeness(&fields)
	fields.RichnessScore = richness(found)
	fields.Confidence = confidenceFor(fields.CompletenessScore)

	return fields
}

// classify picks document type from keywords, preferring file name hits
// over content hits, and category from the best scoring keyword set.
func (e *Enricher) classify(fields *DocumentFields, text, fileName string) {
	nameLower := strings.ToLower(filepath.Base(fileName))
	opening := strings.ToLower(truncateRunes(text, classificationWindow))

	docTypes := make([]string, 0, len(docTypeKeywords))
	for docType := range docTypeKeywords {
		docTypes = append(docTypes, docType)
	}
	sort.Strings(docTypes)

	for _, docType := range docTypes {
		for _, kw := range docTypeKeywords[docType] {
			if strings.Contains(nameLower, kw) {
				fields.DocType = docType
				break
			}
		}
		if fields.DocType != "" {
			break
		}
	}
	if fields.DocType == "" {
		// Earliest keyword hit in the opening wins.
		bestPos := -1
		for _, docType := range docTypes {
			for _, kw := range docTypeKeywords[docType] {
				if pos := strings.Index(opening, kw); pos >= 0 && (bestPos < 0 || pos < bestPos) {
					fields.DocType = docType
					bestPos = pos
				}
			}
		}
	}

	bestScore := 0
	for category, keywords := range categoryKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(opening, kw) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && category < fields.Category) {
			fields.Category = category
			bestScore = score
		}
	}

	for _, property := range propertyTypes {
		if strings.Contains(opening, property) {
			fields.SubCategory = property
			break
		}
	}
}

// aggregateAmounts reduces amount matches to (min, max, principal). The
// principal amount is the largest one: in property documents the
// headline value dominates incidental fees. The dominant currency is
// the one with the most matches.
func (e *Enricher) aggregateAmounts(fields *DocumentFields, matches []Match) {
	if len(matches) == 0 {
		return
	}

	byCurrency := make(map[string]int)
	minV, maxV := matches[0].Number, matches[0].Number
	for _, m := range matches {
		byCurrency[m.Currency]++
		if m.Number < minV {
			minV = m.Number
		}
		if m.Number > maxV {
			maxV = m.Number
		}
	}

	for currency, n := range byCurrency {
		if n > byCurrency[fields.Currency] || fields.Currency == "" {
			fields.Currency = currency
		}
	}

	fields.MinAmount = &minV
	fields.MaxAmount = &maxV
	principal := maxV
	fields.PrincipalAmount = &principal
}

// aggregateDates reduces date matches to (principal, earliest, latest).
// The principal date is the first one mentioned, which in contracts and
// valuations is the signature or reference date.
func (e *Enricher) aggregateDates(fields *DocumentFields, matches []Match) {
	if len(matches) == 0 {
		return
	}

	principal := matches[0].Time
	earliest, latest := matches[0].Time, matches[0].Time
	for _, m := range matches[1:] {
		if m.Time.Before(earliest) {
			earliest = m.Time
		}
		if m.Time.After(latest) {
			latest = m.Time
		}
	}

	fields.PrincipalDate = &principal
	fields.EarliestDate = &earliest
	fields.LatestDate = &latest
}

// aggregateLocations picks the first commune and canton found plus the
// first postal code. A commune hit implies its canton when no canton
// was matched directly.
func (e *Enricher) aggregateLocations(fields *DocumentFields, matches []Match) {
	for _, m := range matches {
		switch {
		case m.Region != "" && m.Raw != m.Region && fields.Commune == "":
			fields.Commune = m.Normalized
			if fields.Canton == "" {
				fields.Canton = m.Region
			}
		case m.Region != "" && m.Raw == m.Region && fields.Canton == "":
			fields.Canton = m.Region
		case m.Region == "" && fields.PostalCode == "":
			fields.PostalCode = m.Normalized
		}
	}
}

func (e *Enricher) aggregateParties(fields *DocumentFields, matches []Match) {
	seen := make(map[string]bool)
	for _, m := range matches {
		key := strings.ToLower(m.Normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		fields.Parties = append(fields.Parties, m.Normalized)
	}
	sort.Strings(fields.Parties)
}

// aggregateDimensions keeps the largest surface as the principal one
// and the first room count.
func (e *Enricher) aggregateDimensions(fields *DocumentFields, surfaces, rooms []Match) {
	for _, m := range surfaces {
		if fields.SurfaceM2 == nil || m.Number > *fields.SurfaceM2 {
			v := m.Number
			fields.SurfaceM2 = &v
		}
	}
	if len(rooms) > 0 {
		v := rooms[0].Number
		fields.RoomCount = &v
	}
}

// completeness is the share of the expected metadata checklist that was
// populated, scaled to 0-100. The checklist has six entries: type,
// category, location, amount, date, party.
func completeness(fields *DocumentFields) float64 {
	populated := 0
	if fields.DocType != "" {
		populated++
	}
	if fields.Category != "" {
		populated++
	}
	if fields.Commune != "" || fields.Canton != "" || fields.PostalCode != "" {
		populated++
	}
	if fields.PrincipalAmount != nil {
		populated++
	}
	if fields.PrincipalDate != nil {
		populated++
	}
	if len(fields.Parties) > 0 {
		populated++
	}
	return float64(populated) / 6.0 * 100.0
}

// richness measures signal density with diminishing returns: each
// signal type contributes up to 20 points, approaching the cap as its
// match count grows. Five saturated signal types reach 100.
func richness(found map[SignalType][]Match) float64 {
	score := 0.0
	for _, sig := range []SignalType{SignalAmount, SignalDate, SignalLocation, SignalParty, SignalSurface} {
		n := float64(len(found[sig]))
		if n > 0 {
			score += 20.0 * n / (n + 1.0)
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func confidenceFor(completeness float64) domain.ConfidenceLevel {
	switch {
	case completeness >= confidenceHighFloor:
		return domain.ConfidenceHigh
	case completeness >= confidenceMediumFloor:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// detectLanguage counts stopword hits per language over a bounded
// sample and returns the ISO code of the best scorer, empty when no
// stopword matched.
func detectLanguage(text string) string {
	sample := " " + strings.ToLower(truncateRunes(text, languageSampleSize)) + " "

	best, bestScore := "", 0
	for _, lang := range []string{"fr", "en", "de"} {
		score := 0
		for _, word := range languageStopwords[lang] {
			score += strings.Count(sample, " "+word+" ")
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	return best
}

// mentionedYears returns the distinct years found in the text, most
// recent first.
func mentionedYears(text string) []int {
	seen := make(map[int]bool)
	var years []int
	for _, m := range yearRe.FindAllString(text, -1) {
		year := 1000*int(m[0]-'0') + 100*int(m[1]-'0') + 10*int(m[2]-'0') + int(m[3]-'0')
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
