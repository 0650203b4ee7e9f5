package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
)

// lexicalIndex implements driven.LexicalIndex over an FTS5 table with
// BM25 ranking.
type lexicalIndex struct {
	store *Store
}

var _ driven.LexicalIndex = (*lexicalIndex)(nil)

// Index adds or updates a chunk in the full-text index.
func (l *lexicalIndex) Index(ctx context.Context, chunk domain.Chunk) error {
	if _, err := l.store.db.ExecContext(ctx,
		"DELETE FROM chunks_fts WHERE chunk_id = ?", chunk.ID); err != nil {
		return fmt.Errorf("clearing fts entry: %w", err)
	}
	if _, err := l.store.db.ExecContext(ctx,
		"INSERT INTO chunks_fts (chunk_id, content) VALUES (?, ?)",
		chunk.ID, chunk.Content); err != nil {
		return fmt.Errorf("indexing chunk: %w", err)
	}
	return nil
}

// Delete removes a chunk from the full-text index.
func (l *lexicalIndex) Delete(ctx context.Context, chunkID string) error {
	if _, err := l.store.db.ExecContext(ctx,
		"DELETE FROM chunks_fts WHERE chunk_id = ?", chunkID); err != nil {
		return fmt.Errorf("deleting fts entry: %w", err)
	}
	return nil
}

// Search returns the best BM25 matches for the query. SQLite's bm25()
// returns lower-is-better negative ranks; the sign is flipped so
// callers see positive higher-is-better scores.
func (l *lexicalIndex) Search(ctx context.Context, query string, filters domain.SearchFilters, limit int) ([]driven.LexicalHit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	where, args := filterClause(filters)
	sqlQuery := `
		SELECT chunks_fts.chunk_id, -bm25(chunks_fts) AS score
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.chunk_id
		JOIN documents d ON d.id = c.document_id
		WHERE chunks_fts MATCH ?` + where + `
		ORDER BY bm25(chunks_fts)
		LIMIT ?
	`
	queryArgs := append([]any{match}, args...)
	queryArgs = append(queryArgs, limit)

	rows, err := l.store.db.QueryContext(ctx, sqlQuery, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying fts: %w", err)
	}
	defer rows.Close()

	var hits []driven.LexicalHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit driven.LexicalHit
		if err := rows.Scan(&hit.ChunkID, &hit.Score); err != nil {
			return nil, fmt.Errorf("scanning fts hit: %w", err)
		}
		if hit.Score < 0 {
			hit.Score = 0
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fts hits: %w", err)
	}

	return hits, nil
}

// ftsQuery converts free text into an FTS5 match expression. Each term
// is quoted so user input can never alter the query syntax, and terms
// combine with OR so partial matches still rank.
func ftsQuery(text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " OR ")
}
