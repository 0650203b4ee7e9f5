package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
	"github.com/dossier-labs/dossier-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// overFetchFactor widens each candidate query beyond the requested
// limit so that fusion has enough material on both sides.
const overFetchFactor = 2

// sideResult carries one retrieval side's candidates keyed by chunk ID.
type sideResult struct {
	scores map[string]float64
	err    error
}

// SearchService is the hybrid ranker. It retrieves semantic and
// lexical candidates independently, fuses them by weighted score over
// the union of both sets, and hydrates the winners.
type SearchService struct {
	docStore driven.DocumentStore
	lexical  driven.LexicalIndex
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
// The embedder is optional (can be nil): without it, text queries are
// answered from the lexical side alone.
func NewSearchService(
	docStore driven.DocumentStore,
	lexical driven.LexicalIndex,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
) *SearchService {
	return &SearchService{
		docStore: docStore,
		lexical:  lexical,
		vectors:  vectors,
		embedder: embedder,
	}
}

// Search runs one hybrid query. A request with no usable query input
// returns an empty response with a status, never an error; a failing
// collaborator returns an error so callers can tell "no matches" from
// "could not search".
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")

	text := strings.TrimSpace(query.Text)
	if text == "" && len(query.Vector) == 0 {
		logger.Debug("No query input, returning empty response")
		return &domain.SearchResponse{Status: domain.SearchNoQuery}, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	k := limit * overFetchFactor

	wSem, wLex := query.SemanticWeight, query.LexicalWeight
	if wSem == 0 && wLex == 0 {
		wSem, wLex = domain.DefaultSemanticWeight, domain.DefaultLexicalWeight
	}
	logger.Debug("Query: text=%q, vector=%t, limit=%d, weights=%.2f/%.2f",
		text, len(query.Vector) > 0, limit, wSem, wLex)

	vector, err := s.queryVector(ctx, query.Vector, text)
	if err != nil {
		return nil, err
	}

	semantic, lexical := s.gatherCandidates(ctx, vector, text, query.Filters, k, query.MinSimilarity)

	// A side that was never requested is not a failure; a side that
	// was requested and failed poisons the whole query only when the
	// other side cannot answer either.
	if semantic.err != nil && lexical.err != nil {
		return nil, fmt.Errorf("search: semantic=%w, lexical=%w", semantic.err, lexical.err)
	}
	if semantic.err != nil && text == "" {
		return nil, fmt.Errorf("semantic search: %w", semantic.err)
	}
	if lexical.err != nil && vector == nil {
		return nil, fmt.Errorf("lexical search: %w", lexical.err)
	}
	if semantic.err != nil {
		logger.Warn("Semantic side failed, degrading to lexical only: %v", semantic.err)
		semantic.scores = nil
	}
	if lexical.err != nil {
		logger.Warn("Lexical side failed, degrading to semantic only: %v", lexical.err)
		lexical.scores = nil
	}

	logger.Debug("Candidates: %d semantic, %d lexical", len(semantic.scores), len(lexical.scores))

	results, err := s.fuse(ctx, semantic.scores, lexical.scores, wSem, wLex, limit)
	if err != nil {
		return nil, err
	}

	resp := &domain.SearchResponse{
		Results: results,
		Status:  fusionStatus(len(semantic.scores), len(lexical.scores)),
	}
	logger.Info("Search: %d results (%s)", len(resp.Results), resp.Status)
	return resp, nil
}

// queryVector resolves the semantic query vector: the caller's own
// vector wins, otherwise the text is embedded when an embedder is
// configured. A nil return disables the semantic side.
func (s *SearchService) queryVector(ctx context.Context, vector []float32, text string) ([]float32, error) {
	if len(vector) > 0 {
		return vector, nil
	}
	if text == "" || s.embedder == nil {
		return nil, nil
	}

	embedded, err := s.embedder.Embed(ctx, text)
	if err != nil {
		// The lexical side can still answer a text query.
		logger.Warn("Query embedding failed, continuing lexical only: %v", err)
		return nil, nil
	}
	return embedded, nil
}

// gatherCandidates issues the two candidate queries, concurrently when
// both sides are active. The two reads are independent; there is no
// ordering dependency between them.
func (s *SearchService) gatherCandidates(
	ctx context.Context,
	vector []float32,
	text string,
	filters domain.SearchFilters,
	k int,
	minSimilarity float64,
) (semantic, lexical sideResult) {
	runSemantic := len(vector) > 0 && s.vectors != nil
	runLexical := text != "" && s.lexical != nil

	var wg sync.WaitGroup

	if runSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semantic = s.semanticSearch(ctx, vector, filters, k, minSimilarity)
		}()
	}
	if runLexical {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lexical = s.lexicalSearch(ctx, text, filters, k)
		}()
	}

	wg.Wait()
	return semantic, lexical
}

// semanticSearch retrieves the top k chunks by cosine similarity.
// Similarities are already in [0,1] and used as scores directly.
func (s *SearchService) semanticSearch(
	ctx context.Context, vector []float32, filters domain.SearchFilters, k int, minSimilarity float64,
) sideResult {
	hits, err := s.vectors.Search(ctx, vector, filters, k, minSimilarity)
	if err != nil {
		return sideResult{err: fmt.Errorf("vector search: %w", err)}
	}

	scores := make(map[string]float64, len(hits))
	for _, hit := range hits {
		scores[hit.ChunkID] = hit.Similarity
	}
	return sideResult{scores: scores}
}

// lexicalSearch retrieves the top k chunks by full-text relevance and
// normalizes the engine-specific scores into [0,1] against the best
// score in the candidate set. Normalization preserves ordering.
func (s *SearchService) lexicalSearch(
	ctx context.Context, text string, filters domain.SearchFilters, k int,
) sideResult {
	hits, err := s.lexical.Search(ctx, text, filters, k)
	if err != nil {
		return sideResult{err: fmt.Errorf("lexical search: %w", err)}
	}

	maxScore := 0.0
	for _, hit := range hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}

	scores := make(map[string]float64, len(hits))
	for _, hit := range hits {
		if maxScore > 0 {
			scores[hit.ChunkID] = hit.Score / maxScore
		} else {
			scores[hit.ChunkID] = 0
		}
	}
	return sideResult{scores: scores}
}

// fuse scores the union of both candidate sets and hydrates the top
// results. A chunk missing from one side contributes zero for that
// side: a candidate can win on semantic or lexical merit alone.
func (s *SearchService) fuse(
	ctx context.Context,
	semantic, lexical map[string]float64,
	wSem, wLex float64,
	limit int,
) ([]domain.RankedResult, error) {
	union := make(map[string]bool, len(semantic)+len(lexical))
	for id := range semantic {
		union[id] = true
	}
	for id := range lexical {
		union[id] = true
	}
	if len(union) == 0 {
		return nil, nil
	}

	results := make([]domain.RankedResult, 0, len(union))
	documents := make(map[string]*domain.Document)

	for id := range union {
		chunk, err := s.docStore.GetChunk(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("hydrate chunk %s: %w", id, err)
		}

		doc, ok := documents[chunk.DocumentID]
		if !ok {
			doc, err = s.docStore.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				return nil, fmt.Errorf("hydrate document %s: %w", chunk.DocumentID, err)
			}
			documents[chunk.DocumentID] = doc
		}

		semScore := semantic[id]
		lexScore := lexical[id]
		results = append(results, domain.RankedResult{
			Chunk:         *chunk,
			Document:      *doc,
			CombinedScore: semScore*wSem + lexScore*wLex,
			SemanticScore: semScore,
			LexicalScore:  lexScore,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		if results[i].Chunk.ImportanceScore != results[j].Chunk.ImportanceScore {
			return results[i].Chunk.ImportanceScore > results[j].Chunk.ImportanceScore
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// fusionStatus reports which sides actually contributed candidates.
func fusionStatus(semCount, lexCount int) domain.SearchStatus {
	switch {
	case semCount > 0 && lexCount == 0:
		return domain.SearchSemanticOnly
	case lexCount > 0 && semCount == 0:
		return domain.SearchLexicalOnly
	default:
		return domain.SearchOK
	}
}
