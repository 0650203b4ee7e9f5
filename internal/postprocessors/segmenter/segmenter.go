// Package segmenter splits document text into overlapping spans with
// surrounding context windows. Offsets are rune offsets, so accented
// text never splits mid-character.
package segmenter

import (
	"fmt"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// Default segmentation values (the "standard" preset).
const (
	DefaultChunkSize     = 1000
	DefaultOverlap       = 200
	DefaultContextWindow = 200
)

// Segmenter produces overlapping spans from document text.
// It is pure: the same input always yields the identical spans.
type Segmenter struct {
	chunkSize     int
	overlap       int
	contextWindow int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithChunkSize sets the window length in runes.
func WithChunkSize(size int) Option {
	return func(s *Segmenter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the number of runes shared between adjacent spans.
func WithOverlap(overlap int) Option {
	return func(s *Segmenter) {
		s.overlap = overlap
	}
}

// WithContextWindow sets the length of the context snippets captured
// before and after each span. Zero disables context capture.
func WithContextWindow(window int) Option {
	return func(s *Segmenter) {
		s.contextWindow = window
	}
}

// WithGranularity applies a named preset's chunk size and overlap.
func WithGranularity(params domain.GranularityParams) Option {
	return func(s *Segmenter) {
		s.chunkSize = params.ChunkSize
		s.overlap = params.Overlap
	}
}

// New creates a segmenter, rejecting parameters that cannot make
// forward progress. Invalid values fail here, before any text is
// processed; they are never clamped.
func New(opts ...Option) (*Segmenter, error) {
	s := &Segmenter{
		chunkSize:     DefaultChunkSize,
		overlap:       DefaultOverlap,
		contextWindow: DefaultContextWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive",
			domain.ErrInvalidSegmentation, s.chunkSize)
	}
	if s.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must be non-negative",
			domain.ErrInvalidSegmentation, s.overlap)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidSegmentation, s.overlap, s.chunkSize)
	}
	if s.contextWindow < 0 {
		return nil, fmt.Errorf("%w: context window %d must be non-negative",
			domain.ErrInvalidSegmentation, s.contextWindow)
	}

	return s, nil
}

// ChunkSize returns the configured window length.
func (s *Segmenter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Segmenter) Overlap() int { return s.overlap }

// ContextWindow returns the configured context snippet length.
func (s *Segmenter) ContextWindow() int { return s.contextWindow }

// Span is one produced segment with its absolute position and the
// text immediately surrounding it.
type Span struct {
	// Index is the zero-based ordinal of the span.
	Index int

	// Start and End are rune offsets into the source text.
	Start int
	End   int

	// Content is the span's own text.
	Content string

	// ContextBefore is up to contextWindow runes preceding Start,
	// empty for the first span at offset 0.
	ContextBefore string

	// ContextAfter is up to contextWindow runes following End,
	// empty when the span reaches the end of the text.
	ContextAfter string
}

// Segment walks the text with a sliding window, advancing by
// chunkSize-overlap runes each step. The final window is truncated to
// the remaining text, never padded. Text no longer than the chunk size
// yields exactly one span; empty text yields none.
func (s *Segmenter) Segment(text string) []Span {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	if total <= s.chunkSize {
		return []Span{{
			Index:   0,
			Start:   0,
			End:     total,
			Content: string(runes),
		}}
	}

	step := s.chunkSize - s.overlap
	spans := make([]Span, 0, total/step+1)

	for start := 0; start < total; start += step {
		end := start + s.chunkSize
		if end > total {
			end = total
		}
		spans = append(spans, s.span(runes, len(spans), start, end))
	}

	return spans
}

// span builds one Span with its context snippets.
func (s *Segmenter) span(runes []rune, index, start, end int) Span {
	total := len(runes)

	ctxStart := start - s.contextWindow
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + s.contextWindow
	if ctxEnd > total {
		ctxEnd = total
	}

	return Span{
		Index:         index,
		Start:         start,
		End:           end,
		Content:       string(runes[start:end]),
		ContextBefore: string(runes[ctxStart:start]),
		ContextAfter:  string(runes[end:ctxEnd]),
	}
}
