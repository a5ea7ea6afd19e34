// Package pgvector backs legalrag.Index with Postgres + the pgvector
// extension, the production index backing (spec.md §6.2, §9 Domain
// Stack) for deployments beyond the embedded sqlite-vec default.
package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/brunobiangulo/legalrag"
)

// Index implements legalrag.Index over a Postgres + pgvector table.
type Index struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
}

// Open connects to Postgres at dsn and ensures the table/index schema
// exists for the given dimension.
func Open(ctx context.Context, dsn, table string, dimension int) (*Index, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	ix := &Index{pool: pool, table: table, dimension: dimension}
	if err := ix.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return ix, nil
}

// Close releases the underlying connection pool.
func (ix *Index) Close() { ix.pool.Close() }

// Dimension implements legalrag.Index.
func (ix *Index) Dimension() int { return ix.dimension }

func (ix *Index) ensureSchema(ctx context.Context) error {
	_, err := ix.pool.Exec(ctx, schemaSQL(ix.table, ix.dimension))
	if err != nil && strings.Contains(err.Error(), "ivfflat") {
		// The approximate index requires enough rows to train on; a
		// fresh, empty table can fail to build one. Ignore and retry
		// implicitly on the next Open once rows exist.
		return nil
	}
	return err
}

// Upsert implements legalrag.Index.
func (ix *Index) Upsert(ctx context.Context, records []legalrag.IndexRecord) error {
	tx, err := ix.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if err := upsertOne(ctx, tx, ix.table, rec); err != nil {
			return fmt.Errorf("upserting chunk %s: %w", rec.ChunkID, err)
		}
	}
	return tx.Commit(ctx)
}

func upsertOne(ctx context.Context, tx pgx.Tx, table string, rec legalrag.IndexRecord) error {
	text, _ := rec.Metadata["text"].(string)
	docID, _ := rec.Metadata["document_id"].(string)
	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (chunk_id, document_id, text, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			text = excluded.text,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`, table), rec.ChunkID, docID, text, metaJSON, pgv.NewVector(rec.Vector))
	return err
}

// DeleteByFilter implements legalrag.Index.
func (ix *Index) DeleteByFilter(ctx context.Context, filter map[string]legalrag.MetadataValue) error {
	where, args := buildFilterClause(filter, 1)
	_, err := ix.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s %s", ix.table, where), args...)
	return err
}

// ReplaceDocument implements legalrag.Index's atomic-per-document
// contract: delete, then insert, in one transaction (spec.md §5).
func (ix *Index) ReplaceDocument(ctx context.Context, docID string, records []legalrag.IndexRecord) error {
	tx, err := ix.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE document_id = $1", ix.table), docID); err != nil {
		return err
	}
	for _, rec := range records {
		if err := upsertOne(ctx, tx, ix.table, rec); err != nil {
			return fmt.Errorf("replacing chunk %s: %w", rec.ChunkID, err)
		}
	}
	return tx.Commit(ctx)
}

// Query implements legalrag.Index's KNN search (spec.md §4.3 Stage 1)
// using pgvector's cosine-distance operator.
func (ix *Index) Query(ctx context.Context, vector legalrag.Embedding, topK int, filter map[string]legalrag.MetadataValue) ([]legalrag.ScoredRecord, error) {
	where, args := buildFilterClause(filter, 2)
	args = append([]any{pgv.NewVector(vector)}, args...)
	args = append(args, topK)

	query := fmt.Sprintf(`
		SELECT chunk_id, text, metadata, 1 - (embedding <=> $1) AS score
		FROM %s %s
		ORDER BY embedding <=> $1
		LIMIT $%d
	`, ix.table, where, len(args))

	rows, err := ix.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []legalrag.ScoredRecord
	for rows.Next() {
		var chunkID, text string
		var metaJSON []byte
		var score float64
		if err := rows.Scan(&chunkID, &text, &metaJSON, &score); err != nil {
			return nil, err
		}
		out = append(out, legalrag.ScoredRecord{
			ChunkID:  chunkID,
			Score:    score,
			Text:     text,
			Metadata: decodeMetadata(metaJSON),
		})
	}
	return out, rows.Err()
}

// Scan implements legalrag.Index's bounded, unscored scan.
func (ix *Index) Scan(ctx context.Context, filter map[string]legalrag.MetadataValue, limit int) ([]legalrag.ScannedRecord, error) {
	where, args := buildFilterClause(filter, 1)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT chunk_id, text, metadata FROM %s %s
		ORDER BY created_at DESC LIMIT $%d
	`, ix.table, where, len(args))

	rows, err := ix.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []legalrag.ScannedRecord
	for rows.Next() {
		var chunkID, text string
		var metaJSON []byte
		if err := rows.Scan(&chunkID, &text, &metaJSON); err != nil {
			return nil, err
		}
		out = append(out, legalrag.ScannedRecord{
			ChunkID:  chunkID,
			Text:     text,
			Metadata: decodeMetadata(metaJSON),
		})
	}
	return out, rows.Err()
}

// Stats implements legalrag.Index.
func (ix *Index) Stats(ctx context.Context) (legalrag.IndexStats, error) {
	var count int
	if err := ix.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ix.table)).Scan(&count); err != nil {
		return legalrag.IndexStats{}, err
	}
	return legalrag.IndexStats{RecordCount: count, Dimension: ix.dimension}, nil
}

func decodeMetadata(raw []byte) map[string]legalrag.MetadataValue {
	meta := map[string]legalrag.MetadataValue{}
	_ = json.Unmarshal(raw, &meta)
	return meta
}

// buildFilterClause renders filter as a parameterized WHERE clause,
// with placeholders starting at startIndex. document_id maps to its
// indexed column; every other key falls back to a JSONB path lookup.
func buildFilterClause(filter map[string]legalrag.MetadataValue, startIndex int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	clause := "WHERE "
	var args []any
	idx := startIndex
	first := true
	for key, value := range filter {
		if !first {
			clause += " AND "
		}
		first = false
		if key == "document_id" {
			clause += fmt.Sprintf("document_id = $%d", idx)
		} else {
			clause += fmt.Sprintf("metadata->>'%s' = $%d", key, idx)
		}
		args = append(args, fmt.Sprint(value))
		idx++
	}
	return clause, args
}
