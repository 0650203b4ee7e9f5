package sqlite

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex with brute-force cosine
// similarity over float32 blobs. Candidate filtering happens in SQL;
// scoring happens in Go.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Add stores the embedding for the given chunk ID.
func (v *vectorIndex) Add(ctx context.Context, chunkID string, embedding []float32) error {
	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO chunk_vectors (chunk_id, embedding) VALUES (?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET embedding = excluded.embedding
	`, chunkID, float32SliceToBytes(embedding))
	if err != nil {
		return fmt.Errorf("saving vector: %w", err)
	}
	return nil
}

// Delete removes a vector from the index.
func (v *vectorIndex) Delete(ctx context.Context, chunkID string) error {
	if _, err := v.store.db.ExecContext(ctx,
		"DELETE FROM chunk_vectors WHERE chunk_id = ?", chunkID); err != nil {
		return fmt.Errorf("deleting vector: %w", err)
	}
	return nil
}

// Search finds the k nearest chunks to the query vector by cosine
// similarity. Negative cosines clamp to zero so the similarity scale
// stays in [0,1].
func (v *vectorIndex) Search(ctx context.Context, query []float32, filters domain.SearchFilters, k int, minSimilarity float64) ([]driven.VectorHit, error) {
	if len(query) == 0 || k <= 0 {
		return nil, nil
	}

	where, args := filterClause(filters)
	rows, err := v.store.db.QueryContext(ctx, `
		SELECT cv.chunk_id, cv.embedding
		FROM chunk_vectors cv
		JOIN chunks c ON c.id = cv.chunk_id
		JOIN documents d ON d.id = c.document_id
		WHERE 1 = 1`+where+`
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var chunkID string
		var blob []byte
		if err := rows.Scan(&chunkID, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}

		similarity := cosineSimilarity(query, bytesToFloat32Slice(blob))
		if similarity < minSimilarity {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: chunkID, Similarity: similarity})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors, clamped to [0,1]. Mismatched dimensions yield zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}
