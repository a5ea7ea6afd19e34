package sqlitevec

import "fmt"

// schemaSQL returns the DDL for the embedded vector index: a row table
// holding chunk text and flattened metadata, and a sqlite-vec vec0
// virtual table holding the embedding keyed by the same rowid.
func schemaSQL(dimension int) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS chunks (
    rowid       INTEGER PRIMARY KEY,
    chunk_id    TEXT NOT NULL UNIQUE,
    document_id TEXT NOT NULL,
    text        TEXT NOT NULL,
    metadata    JSON NOT NULL,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
    rowid INTEGER PRIMARY KEY,
    embedding float[%d] distance_metric=cosine
);

CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
`, dimension)
}
