package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/yonerge/internal/adapters/driven/storage/nearest"
	"github.com/custodia-labs/yonerge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// dbFile is the database file name inside the storage directory.
const dbFile = "index.db"

// Store is a SQLite-backed index store.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

// NewStore opens or creates the index database under dataDir. Every add
// and query embeds through embedder.
func NewStore(dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	if dataDir == "" {
		dataDir = domain.DefaultStoragePath
	}
	if embedder == nil {
		return nil, fmt.Errorf("sqlite: embedding service is required")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// WAL lets readers proceed while an ingestion transaction is open.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

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

// GetOrCreateCollection returns the named collection, creating it with opts.
func (s *Store) GetOrCreateCollection(
	ctx context.Context,
	name string,
	opts driven.CollectionOptions,
) (driven.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is empty", domain.ErrInvalidInput)
	}
	space := opts.Space
	if space == "" {
		space = domain.SpaceL2
	}
	if !space.IsValid() {
		return nil, fmt.Errorf("%w: unknown distance space %q", domain.ErrInvalidInput, space)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, embedding_model, space)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, opts.EmbeddingModel, string(space))
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	c := &collection{store: s, name: name}
	var storedSpace string
	row := s.db.QueryRowContext(ctx, `SELECT embedding_model, space FROM collections WHERE name = ?`, name)
	if err := row.Scan(&c.model, &storedSpace); err != nil {
		return nil, fmt.Errorf("loading collection: %w", err)
	}
	c.space = domain.DistanceSpace(storedSpace)
	return c, nil
}

// DeleteCollection removes a collection and its passages.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM passages WHERE collection = ?`, name); err != nil {
		return fmt.Errorf("deleting passages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return tx.Commit()
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Collection ====================

type collection struct {
	store *Store
	name  string
	model string
	space domain.DistanceSpace
}

var _ driven.Collection = (*collection)(nil)

func (c *collection) Name() string                { return c.name }
func (c *collection) EmbeddingModel() string      { return c.model }
func (c *collection) Space() domain.DistanceSpace { return c.space }

// Count returns the number of stored passages.
func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	row := c.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages WHERE collection = ?`, c.name)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return n, nil
}

// Add embeds texts and writes the batch in one transaction. An existing
// id is overwritten.
func (c *collection) Add(ctx context.Context, ids, texts []string, metas []domain.PassageMetadata) error {
	if len(ids) != len(texts) || len(ids) != len(metas) {
		return fmt.Errorf("%w: %d ids, %d texts, %d metadatas", domain.ErrInvalidInput, len(ids), len(texts), len(metas))
	}
	if len(ids) == 0 {
		return nil
	}

	vectors, err := c.store.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding passages: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding passages: got %d vectors for %d texts", len(vectors), len(texts))
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passages (collection, id, document, metadata, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			document = excluded.document,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range ids {
		metaJSON, err := json.Marshal(metas[i])
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, c.name, ids[i], texts[i], string(metaJSON), float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("inserting passage %s: %w", ids[i], err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE collections SET dimensions = ? WHERE name = ? AND dimensions = 0`,
		len(vectors[0]), c.name); err != nil {
		return fmt.Errorf("recording dimensions: %w", err)
	}

	return tx.Commit()
}

// Query embeds text and ranks every passage by exact distance.
func (c *collection) Query(ctx context.Context, text string, topK int) (*domain.QueryResult, error) {
	if topK < 1 {
		return nil, &domain.ValidationError{Field: "top_k", Reason: "must be at least 1"}
	}

	vec, err := c.store.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, document, metadata, embedding
		FROM passages WHERE collection = ?
		ORDER BY seq
	`, c.name)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var cands []nearest.Candidate
	for rows.Next() {
		var cand nearest.Candidate
		var metaJSON string
		var blob []byte
		if err := rows.Scan(&cand.ID, &cand.Text, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &cand.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
		cand.Embedding = bytesToFloat32Slice(blob)
		cands = append(cands, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	res, err := nearest.Search(c.space, vec, cands, topK)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: query embedding does not match stored passages (%w)", domain.ErrConfigMismatch, err)
		}
		return nil, err
	}
	return res, nil
}

// float32SliceToBytes encodes a vector as little-endian float32s.
func float32SliceToBytes(floats []float32) []byte {
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
