// Package pgvector provides an index store on PostgreSQL with the pgvector
// extension, for deployments that already run Postgres.
package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS yonerge_collections (
    name            TEXT PRIMARY KEY,
    embedding_model TEXT NOT NULL,
    space           TEXT NOT NULL DEFAULT 'l2',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS yonerge_passages (
    seq        BIGSERIAL PRIMARY KEY,
    collection TEXT NOT NULL REFERENCES yonerge_collections(name) ON DELETE CASCADE,
    id         TEXT NOT NULL,
    document   TEXT NOT NULL,
    metadata   JSONB NOT NULL,
    embedding  vector NOT NULL,
    UNIQUE (collection, id)
);
`

// distanceExpr maps a space onto a pgvector operator expression that
// matches domain.DistanceSpace.Distance.
func distanceExpr(space domain.DistanceSpace) string {
	switch space {
	case domain.SpaceCosine:
		return "embedding <=> $1::vector"
	case domain.SpaceIP:
		// <#> is the negated inner product.
		return "1 + (embedding <#> $1::vector)"
	default:
		return "power(embedding <-> $1::vector, 2)"
	}
}

// Store is a Postgres-backed index store.
type Store struct {
	pool     *pgxpool.Pool
	embedder driven.EmbeddingService
}

// NewStore connects to databaseURL and ensures the schema exists.
func NewStore(ctx context.Context, databaseURL string, embedder driven.EmbeddingService) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("pgvector: database URL is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("pgvector: embedding service is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgvector: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector: create schema: %w", err)
	}

	return &Store{pool: pool, embedder: embedder}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO yonerge_collections (name, embedding_model, space)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`, name, opts.EmbeddingModel, string(space))
	if err != nil {
		return nil, fmt.Errorf("pgvector: create collection: %w", err)
	}

	c := &collection{store: s, name: name}
	var storedSpace string
	err = s.pool.QueryRow(ctx,
		`SELECT embedding_model, space FROM yonerge_collections WHERE name = $1`, name,
	).Scan(&c.model, &storedSpace)
	if err != nil {
		return nil, fmt.Errorf("pgvector: load collection: %w", err)
	}
	c.space = domain.DistanceSpace(storedSpace)
	return c, nil
}

// DeleteCollection removes a collection; passages cascade.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM yonerge_collections WHERE name = $1`, name); err != nil {
		return fmt.Errorf("pgvector: delete collection: %w", err)
	}
	return nil
}

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

func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.store.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM yonerge_passages WHERE collection = $1`, c.name,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("pgvector: count: %w", err)
	}
	return n, nil
}

// Add embeds texts and writes them in one transaction using a batch.
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

	batch := &pgx.Batch{}
	for i := range ids {
		metaJSON, err := json.Marshal(metas[i])
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		batch.Queue(`
			INSERT INTO yonerge_passages (collection, id, document, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5::vector)
			ON CONFLICT (collection, id) DO UPDATE SET
				document = EXCLUDED.document,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding
		`, c.name, ids[i], texts[i], string(metaJSON), pgvector.NewVector(vectors[i]))
	}

	return pgx.BeginFunc(ctx, c.store.pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("pgvector: insert passages: %w", err)
		}
		return nil
	})
}

// Query orders passages by distance in the database.
func (c *collection) Query(ctx context.Context, text string, topK int) (*domain.QueryResult, error) {
	if topK < 1 {
		return nil, &domain.ValidationError{Field: "top_k", Reason: "must be at least 1"}
	}

	vec, err := c.store.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	sql := `SELECT id, document, metadata, ` + distanceExpr(c.space) + ` AS distance
		FROM yonerge_passages
		WHERE collection = $2
		ORDER BY distance, seq
		LIMIT $3`

	rows, err := c.store.pool.Query(ctx, sql, pgvector.NewVector(vec), c.name, topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector: query: %w", err)
	}
	defer rows.Close()

	res := &domain.QueryResult{
		IDs:       [][]string{{}},
		Documents: [][]string{{}},
		Metadatas: [][]domain.PassageMetadata{{}},
		Distances: [][]float64{{}},
	}
	for rows.Next() {
		var id, doc string
		var metaJSON []byte
		var dist float64
		if err := rows.Scan(&id, &doc, &metaJSON, &dist); err != nil {
			return nil, fmt.Errorf("pgvector: scan: %w", err)
		}
		var meta domain.PassageMetadata
		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			return nil, fmt.Errorf("pgvector: decode metadata: %w", err)
		}
		res.IDs[0] = append(res.IDs[0], id)
		res.Documents[0] = append(res.Documents[0], doc)
		res.Metadatas[0] = append(res.Metadatas[0], meta)
		res.Distances[0] = append(res.Distances[0], dist)
	}
	if err := rows.Err(); err != nil {
		if isDimensionMismatch(err) {
			return nil, fmt.Errorf("%w: query embedding does not match stored passages (%w)", domain.ErrConfigMismatch, err)
		}
		return nil, fmt.Errorf("pgvector: query: %w", err)
	}
	return res, nil
}

// isDimensionMismatch reports pgvector's "different vector dimensions" error.
func isDimensionMismatch(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		// data_exception
		return pgErr.SQLState() == "22000"
	}
	return false
}
