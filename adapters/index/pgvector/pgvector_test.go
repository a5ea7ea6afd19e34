package pgvector

import (
	"strings"
	"testing"

	"github.com/brunobiangulo/legalrag"
)

// These tests cover the pure-Go helpers only; exercising Open/Upsert/Query
// against a live Postgres+pgvector instance is left to integration testing
// since this package has no embedded backing to spin up in-process.

func TestBuildFilterClauseEmpty(t *testing.T) {
	where, args := buildFilterClause(nil, 1)
	if where != "" || args != nil {
		t.Fatalf("expected empty clause for nil filter, got %q %v", where, args)
	}
}

func TestBuildFilterClauseDocumentID(t *testing.T) {
	where, args := buildFilterClause(map[string]legalrag.MetadataValue{"document_id": "doc-1"}, 1)
	if where != "WHERE document_id = $1" {
		t.Fatalf("unexpected clause: %q", where)
	}
	if len(args) != 1 || args[0] != "doc-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildFilterClauseStartIndexOffset(t *testing.T) {
	where, args := buildFilterClause(map[string]legalrag.MetadataValue{"document_id": "doc-1"}, 2)
	if where != "WHERE document_id = $2" {
		t.Fatalf("unexpected clause: %q", where)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildFilterClauseOtherKeyUsesJSONBPath(t *testing.T) {
	where, _ := buildFilterClause(map[string]legalrag.MetadataValue{"chunking_method": "policy_section"}, 1)
	if !strings.Contains(where, "metadata->>'chunking_method' = $1") {
		t.Fatalf("expected jsonb path lookup, got %q", where)
	}
}

func TestDecodeMetadataInvalidJSONReturnsEmptyMap(t *testing.T) {
	meta := decodeMetadata([]byte("not json"))
	if len(meta) != 0 {
		t.Fatalf("expected empty map on invalid JSON, got %v", meta)
	}
}

func TestSchemaSQLIncludesDimensionAndTable(t *testing.T) {
	sql := schemaSQL("chunks", 384)
	if !strings.Contains(sql, "vector(384)") {
		t.Fatalf("expected vector(384) in schema, got %q", sql)
	}
	if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS chunks") {
		t.Fatalf("expected chunks table in schema, got %q", sql)
	}
}
