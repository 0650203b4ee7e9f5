package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dossier-labs/dossier-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// all document store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.dossier/data/dossier.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dossier", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dossier.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// StatsStore returns a StatsStore interface backed by this store.
func (s *Store) StatsStore() driven.StatsStore {
	return &statsStore{store: s}
}

// LexicalIndex returns a LexicalIndex interface backed by this store.
func (s *Store) LexicalIndex() driven.LexicalIndex {
	return &lexicalIndex{store: s}
}

// VectorIndex returns a VectorIndex interface backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// docColumns lists the documents columns in scan order.
const docColumns = `id, path, file_name, content, size_bytes, page_count, word_count, char_count,
	doc_type, category, sub_category, parties, principal_amount, min_amount, max_amount, currency,
	principal_date, earliest_date, latest_date, commune, canton, postal_code, surface_m2, room_count,
	language, completeness_score, richness_score, confidence, created_at, updated_at`

// chunkColumns lists the chunks columns in scan order.
const chunkColumns = `id, document_id, idx, content, size, start_offset, end_offset, page,
	section_title, section_level, type, has_tables, has_numbers, has_dates, has_amounts,
	entities, locations, importance_score, context_before, context_after, embedding`

// SaveGraph stores or replaces a document graph in one transaction.
func (s *documentStore) SaveGraph(ctx context.Context, graph *driven.DocumentGraph) error {
	doc := &graph.Document

	partiesJSON, err := json.Marshal(doc.Parties)
	if err != nil {
		return fmt.Errorf("marshalling parties: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Replacing an existing graph releases its tag links and rows
	// first so the insert below starts clean.
	if err := unlinkTags(ctx, tx, doc.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM entities WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing entities: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (`+docColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			file_name = excluded.file_name,
			content = excluded.content,
			size_bytes = excluded.size_bytes,
			page_count = excluded.page_count,
			word_count = excluded.word_count,
			char_count = excluded.char_count,
			doc_type = excluded.doc_type,
			category = excluded.category,
			sub_category = excluded.sub_category,
			parties = excluded.parties,
			principal_amount = excluded.principal_amount,
			min_amount = excluded.min_amount,
			max_amount = excluded.max_amount,
			currency = excluded.currency,
			principal_date = excluded.principal_date,
			earliest_date = excluded.earliest_date,
			latest_date = excluded.latest_date,
			commune = excluded.commune,
			canton = excluded.canton,
			postal_code = excluded.postal_code,
			surface_m2 = excluded.surface_m2,
			room_count = excluded.room_count,
			language = excluded.language,
			completeness_score = excluded.completeness_score,
			richness_score = excluded.richness_score,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Path, doc.FileName, doc.Content, doc.SizeBytes, doc.PageCount,
		doc.WordCount, doc.CharCount, doc.DocType, doc.Category, doc.SubCategory,
		string(partiesJSON), doc.PrincipalAmount, doc.MinAmount, doc.MaxAmount,
		doc.Currency, doc.PrincipalDate, doc.EarliestDate, doc.LatestDate,
		doc.Commune, doc.Canton, doc.PostalCode, doc.SurfaceM2, doc.RoomCount,
		doc.Language, doc.CompletenessScore, doc.RichnessScore, string(doc.Confidence),
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if err := insertChunks(ctx, tx, graph.Chunks); err != nil {
		return err
	}
	if err := insertEntities(ctx, tx, graph.Entities); err != nil {
		return err
	}
	if err := linkTags(ctx, tx, doc.ID, graph.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// insertChunks stores chunk rows within the transaction.
func insertChunks(ctx context.Context, tx *sql.Tx, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		entitiesJSON, err := json.Marshal(chunk.Entities)
		if err != nil {
			return fmt.Errorf("marshalling chunk entities: %w", err)
		}
		locationsJSON, err := json.Marshal(chunk.Locations)
		if err != nil {
			return fmt.Errorf("marshalling chunk locations: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Index,
			chunk.Content, chunk.Size, chunk.StartOffset, chunk.EndOffset, chunk.Page,
			chunk.SectionTitle, chunk.SectionLevel, string(chunk.Type),
			chunk.HasTables, chunk.HasNumbers, chunk.HasDates, chunk.HasAmounts,
			string(entitiesJSON), string(locationsJSON), chunk.ImportanceScore,
			chunk.ContextBefore, chunk.ContextAfter,
			float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
		}
	}
	return nil
}

// insertEntities stores entity mention rows within the transaction.
func insertEntities(ctx context.Context, tx *sql.Tx, entities []domain.EntityMention) error {
	for _, entity := range entities {
		indexesJSON, err := json.Marshal(entity.ChunkIndexes)
		if err != nil {
			return fmt.Errorf("marshalling chunk indexes: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entities (id, document_id, type, value, normalized, mention_count, chunk_indexes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, entity.ID, entity.DocumentID, string(entity.Type), entity.Value,
			entity.Normalized, entity.MentionCount, string(indexesJSON)); err != nil {
			return fmt.Errorf("saving entity %s: %w", entity.Normalized, err)
		}
	}
	return nil
}

// linkTags upserts tags and links them to the document, incrementing
// usage counters.
func linkTags(ctx context.Context, tx *sql.Tx, documentID string, tags map[string]string) error {
	for name, category := range tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tags (name, category, usage_count)
			VALUES (?, ?, 1)
			ON CONFLICT(name) DO UPDATE SET
				category = excluded.category,
				usage_count = usage_count + 1
		`, name, category); err != nil {
			return fmt.Errorf("saving tag %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_tags (document_id, tag_name) VALUES (?, ?)
		`, documentID, name); err != nil {
			return fmt.Errorf("linking tag %s: %w", name, err)
		}
	}
	return nil
}

// unlinkTags decrements usage counters and removes the document's tag
// links.
func unlinkTags(ctx context.Context, tx *sql.Tx, documentID string) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE tags SET usage_count = usage_count - 1
		WHERE usage_count > 0
		  AND name IN (SELECT tag_name FROM document_tags WHERE document_id = ?)
	`, documentID); err != nil {
		return fmt.Errorf("decrementing tag usage: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM document_tags WHERE document_id = ?
	`, documentID); err != nil {
		return fmt.Errorf("unlinking tags: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+docColumns+` FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	if doc.Tags, err = s.documentTags(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocumentByPath retrieves a document by its source path.
func (s *documentStore) GetDocumentByPath(ctx context.Context, path string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+docColumns+` FROM documents WHERE path = ?
	`, path)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	if doc.Tags, err = s.documentTags(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetChunks retrieves all chunks for a document, ordered by index.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+` FROM chunks WHERE document_id = ?
		ORDER BY idx
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+chunkColumns+` FROM chunks WHERE id = ?
	`, id)

	return scanChunk(row)
}

// GetEntities retrieves the entity mentions of a document.
func (s *documentStore) GetEntities(ctx context.Context, documentID string) ([]domain.EntityMention, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, type, value, normalized, mention_count, chunk_indexes
		FROM entities WHERE document_id = ?
		ORDER BY type, normalized
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.EntityMention //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entity domain.EntityMention
		var entityType, indexesJSON string
		if err := rows.Scan(&entity.ID, &entity.DocumentID, &entityType, &entity.Value,
			&entity.Normalized, &entity.MentionCount, &indexesJSON); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		entity.Type = domain.EntityType(entityType)
		if indexesJSON != jsonNull {
			if err := json.Unmarshal([]byte(indexesJSON), &entity.ChunkIndexes); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk indexes: %w", err)
			}
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}

	return entities, nil
}

// ListDocuments returns all documents without their content.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+docColumns+` FROM documents ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		doc.Content = ""
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for i := range docs {
		if docs[i].Tags, err = s.documentTags(ctx, docs[i].ID); err != nil {
			return nil, err
		}
	}

	return docs, nil
}

// ListTags returns all known tags with usage counters.
func (s *documentStore) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT name, category, usage_count FROM tags
		WHERE usage_count > 0
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag //nolint:prealloc // size unknown from query
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.Name, &tag.Category, &tag.UsageCount); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}

// SaveEmbeddings stores the embedding vectors for chunks. Chunk IDs
// not present in the store are ignored.
func (s *documentStore) SaveEmbeddings(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, "UPDATE chunks SET embedding = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, float32SliceToBytes(chunk.Embedding), chunk.ID); err != nil {
			return fmt.Errorf("saving embedding for chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteDocument removes a document; chunks, entities and tag links
// cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := unlinkTags(ctx, tx, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// documentTags loads the sorted tag names linked to a document.
func (s *documentStore) documentTags(ctx context.Context, documentID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT tag_name FROM document_tags WHERE document_id = ? ORDER BY tag_name
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying document tags: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document tags: %w", err)
	}

	return names, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanDocument scans a single document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var partiesJSON, confidence string
	var principalAmount, minAmount, maxAmount, surface, rooms sql.NullFloat64
	var principalDate, earliestDate, latestDate sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Path, &doc.FileName, &doc.Content, &doc.SizeBytes,
		&doc.PageCount, &doc.WordCount, &doc.CharCount, &doc.DocType, &doc.Category,
		&doc.SubCategory, &partiesJSON, &principalAmount, &minAmount, &maxAmount,
		&doc.Currency, &principalDate, &earliestDate, &latestDate, &doc.Commune,
		&doc.Canton, &doc.PostalCode, &surface, &rooms, &doc.Language,
		&doc.CompletenessScore, &doc.RichnessScore, &confidence,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Confidence = domain.ConfidenceLevel(confidence)
	doc.PrincipalAmount = nullableFloat(principalAmount)
	doc.MinAmount = nullableFloat(minAmount)
	doc.MaxAmount = nullableFloat(maxAmount)
	doc.SurfaceM2 = nullableFloat(surface)
	doc.RoomCount = nullableFloat(rooms)
	doc.PrincipalDate = nullableTime(principalDate)
	doc.EarliestDate = nullableTime(earliestDate)
	doc.LatestDate = nullableTime(latestDate)

	if partiesJSON != jsonNull {
		if err := json.Unmarshal([]byte(partiesJSON), &doc.Parties); err != nil {
			return nil, fmt.Errorf("unmarshaling parties: %w", err)
		}
	}

	return &doc, nil
}

// scanChunk scans a single chunk row.
func scanChunk(row rowScanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var chunkType, entitiesJSON, locationsJSON string
	var page sql.NullInt64
	var embeddingBlob []byte

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.Content,
		&chunk.Size, &chunk.StartOffset, &chunk.EndOffset, &page,
		&chunk.SectionTitle, &chunk.SectionLevel, &chunkType,
		&chunk.HasTables, &chunk.HasNumbers, &chunk.HasDates, &chunk.HasAmounts,
		&entitiesJSON, &locationsJSON, &chunk.ImportanceScore,
		&chunk.ContextBefore, &chunk.ContextAfter, &embeddingBlob); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Type = domain.ChunkType(chunkType)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if page.Valid {
		p := int(page.Int64)
		chunk.Page = &p
	}

	if entitiesJSON != jsonNull {
		if err := json.Unmarshal([]byte(entitiesJSON), &chunk.Entities); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk entities: %w", err)
		}
	}
	if locationsJSON != jsonNull {
		if err := json.Unmarshal([]byte(locationsJSON), &chunk.Locations); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk locations: %w", err)
		}
	}

	return &chunk, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
