// Package sqlitevec backs legalrag.Index with an embedded SQLite
// database using the sqlite-vec extension for vector search, the
// default/dev index backing (spec.md §6.2, §9 Domain Stack).
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/brunobiangulo/legalrag"
)

func init() {
	sqlite_vec.Auto()
}

// Index implements legalrag.Index over a local SQLite file.
type Index struct {
	db        *sql.DB
	dimension int
}

// Open creates (or reopens) the embedded index at path with the given
// vector dimension.
func Open(path string, dimension int) (*Index, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite-vec index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite-vec index: %w", err)
	}
	if _, err := db.Exec(schemaSQL(dimension)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite-vec schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Index{db: db, dimension: dimension}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error { return ix.db.Close() }

// Dimension implements legalrag.Index.
func (ix *Index) Dimension() int { return ix.dimension }

// Upsert implements legalrag.Index: insert or update chunk rows by
// chunk_id, writing the vector into vec_chunks under the same rowid.
func (ix *Index) Upsert(ctx context.Context, records []legalrag.IndexRecord) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range records {
		if err := upsertOne(ctx, tx, rec); err != nil {
			return fmt.Errorf("upserting chunk %s: %w", rec.ChunkID, err)
		}
	}
	return tx.Commit()
}

func upsertOne(ctx context.Context, tx *sql.Tx, rec legalrag.IndexRecord) error {
	text, _ := rec.Metadata["text"].(string)
	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return err
	}

	docID, _ := rec.Metadata["document_id"].(string)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chunks (chunk_id, document_id, text, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			text = excluded.text,
			metadata = excluded.metadata
	`, rec.ChunkID, docID, text, string(metaJSON))
	if err != nil {
		return err
	}

	// LastInsertId is left unchanged when the upsert takes its UPDATE
	// path, so the rowid is always read back by chunk_id.
	var rowid int64
	if err := tx.QueryRowContext(ctx, "SELECT rowid FROM chunks WHERE chunk_id = ?", rec.ChunkID).Scan(&rowid); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO vec_chunks (rowid, embedding) VALUES (?, ?)",
		rowid, serializeFloat32(rec.Vector))
	return err
}

// DeleteByFilter implements legalrag.Index, matching on document_id
// when present in filter and falling back to a JSON path match for any
// other key.
func (ix *Index) DeleteByFilter(ctx context.Context, filter map[string]legalrag.MetadataValue) error {
	where, args := buildFilterClause(filter)
	rows, err := ix.db.QueryContext(ctx, "SELECT rowid FROM chunks "+where, args...)
	if err != nil {
		return err
	}
	var rowids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		rowids = append(rowids, id)
	}
	rows.Close()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, id := range rowids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vec_chunks WHERE rowid = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE rowid = ?", id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceDocument implements legalrag.Index's atomic-per-document
// contract (spec.md §5): all prior chunks for docID are deleted and the
// new records inserted within a single transaction, so queries never
// observe a partial write.
func (ix *Index) ReplaceDocument(ctx context.Context, docID string, records []legalrag.IndexRecord) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT rowid FROM chunks WHERE document_id = ?", docID)
	if err != nil {
		return err
	}
	var rowids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		rowids = append(rowids, id)
	}
	rows.Close()
	for _, id := range rowids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vec_chunks WHERE rowid = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE rowid = ?", id); err != nil {
			return err
		}
	}

	for _, rec := range records {
		if err := upsertOne(ctx, tx, rec); err != nil {
			return fmt.Errorf("replacing chunk %s: %w", rec.ChunkID, err)
		}
	}
	return tx.Commit()
}

// Query implements legalrag.Index's KNN search (spec.md §4.3 Stage 1).
// Filtering is applied in Go after the KNN fetch, widened by a constant
// factor, since combining a vec0 MATCH with an arbitrary JSON predicate
// in one query is not supported by sqlite-vec; acceptable for the
// embedded/dev backing this package serves.
func (ix *Index) Query(ctx context.Context, vector legalrag.Embedding, topK int, filter map[string]legalrag.MetadataValue) ([]legalrag.ScoredRecord, error) {
	fetchK := topK * 4
	if fetchK < topK {
		fetchK = topK
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT v.rowid, v.distance, c.chunk_id, c.text, c.metadata
		FROM vec_chunks v
		JOIN chunks c ON c.rowid = v.rowid
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(vector), fetchK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []legalrag.ScoredRecord
	for rows.Next() {
		var rowid int64
		var distance float64
		var chunkID, text, metaJSON string
		if err := rows.Scan(&rowid, &distance, &chunkID, &text, &metaJSON); err != nil {
			return nil, err
		}
		meta := decodeMetadata(metaJSON)
		if !matchesFilter(meta, filter) {
			continue
		}
		out = append(out, legalrag.ScoredRecord{
			ChunkID:  chunkID,
			Score:    1 - distance,
			Text:     text,
			Metadata: meta,
		})
		if len(out) >= topK {
			break
		}
	}
	return out, rows.Err()
}

// Scan implements legalrag.Index's bounded, unscored scan used by the
// keyword-anchoring fallback.
func (ix *Index) Scan(ctx context.Context, filter map[string]legalrag.MetadataValue, limit int) ([]legalrag.ScannedRecord, error) {
	where, args := buildFilterClause(filter)
	args = append(args, limit)

	rows, err := ix.db.QueryContext(ctx, `
		SELECT chunk_id, text, metadata FROM chunks `+where+`
		ORDER BY rowid DESC LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []legalrag.ScannedRecord
	for rows.Next() {
		var chunkID, text, metaJSON string
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
	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return legalrag.IndexStats{}, err
	}
	return legalrag.IndexStats{RecordCount: count, Dimension: ix.dimension}, nil
}

func decodeMetadata(raw string) map[string]legalrag.MetadataValue {
	meta := map[string]legalrag.MetadataValue{}
	_ = json.Unmarshal([]byte(raw), &meta)
	return meta
}

// buildFilterClause renders filter as a WHERE clause: document_id maps
// to the indexed column directly, every other key falls back to a JSON
// path equality check against the metadata column.
func buildFilterClause(filter map[string]legalrag.MetadataValue) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	clause := "WHERE "
	var args []any
	first := true
	for key, value := range filter {
		if !first {
			clause += " AND "
		}
		first = false
		if key == "document_id" {
			clause += "document_id = ?"
		} else {
			clause += fmt.Sprintf("json_extract(metadata, '$.%s') = ?", key)
		}
		args = append(args, value)
	}
	return clause, args
}

// matchesFilter re-checks a filter in Go for rows already fetched via
// KNN, since Query widens the vec0 fetch before filtering.
func matchesFilter(meta map[string]legalrag.MetadataValue, filter map[string]legalrag.MetadataValue) bool {
	for key, want := range filter {
		got, ok := meta[key]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// serializeFloat32 converts a float32 slice to little-endian bytes for
// sqlite-vec, the wire format its vec0 virtual tables expect.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
