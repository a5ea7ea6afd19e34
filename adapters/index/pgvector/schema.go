package pgvector

import "fmt"

// schemaSQL returns the DDL for the production vector index: a single
// table holding chunk text, flattened JSONB metadata, and the pgvector
// embedding column, plus an approximate cosine index.
func schemaSQL(table string, dimension int) string {
	return fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS %[1]s (
    chunk_id    TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    text        TEXT NOT NULL,
    metadata    JSONB NOT NULL,
    embedding   vector(%[2]d) NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS %[1]s_document_idx ON %[1]s (document_id);

DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_indexes
        WHERE schemaname = current_schema() AND indexname = '%[1]s_embedding_idx'
    ) THEN
        EXECUTE 'CREATE INDEX %[1]s_embedding_idx ON %[1]s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)';
    END IF;
END
$$;
`, table, dimension)
}
