package legalrag

import (
	"errors"
	"fmt"
)

// Kind classifies an Error by how the caller and the pipeline should
// react to it: whether to retry, whether external calls were attempted,
// and what StructuredResponse shape (if any) should be synthesized.
type Kind string

const (
	// KindValidation marks malformed or out-of-bounds caller input.
	// No external calls are made before this error is returned.
	KindValidation Kind = "validation"

	// KindConfiguration marks inconsistent settings discovered at
	// construction time (dimension mismatch, fusion weights != 1, ...).
	KindConfiguration Kind = "configuration"

	// KindTransientExternal marks a retryable provider failure. The
	// llmchat adapter retries a transient failure once before returning
	// it; the embedding adapter and the retrieval stages return it
	// without a retry, and it is not escalated to KindHardExternal.
	KindTransientExternal Kind = "transient_external"

	// KindHardExternal marks a non-retryable provider failure or a
	// deadline exceeded after the single retry.
	KindHardExternal Kind = "hard_external"

	// KindEmptyResult marks a query that produced zero candidates after
	// every retrieval stage, including fallback. Not a fault.
	KindEmptyResult Kind = "empty_result"

	// KindInternal marks an invariant violation inside the core. Logged
	// with full context and converted to a generic envelope at the
	// boundary to avoid leaking internals.
	KindInternal Kind = "internal"
)

// Error is the typed error returned by every exported operation. Stage
// names the pipeline stage that raised it (e.g. "embedding", "vector_index",
// "llm", "chunker") so callers and the explainability record can report
// precisely where a query failed.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("legalrag: %s (%s/%s)", e.Err, e.Kind, e.Stage)
	}
	return fmt.Sprintf("legalrag: %s (%s)", e.Err, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a Kind and the stage that produced it.
func NewError(kind Kind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal if err does not
// carry one (an invariant violation: every error leaving the core should
// be wrapped via NewError).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StageOf returns the pipeline stage carried by err, or "" if unknown.
func StageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// Sentinel errors that call sites can compare against with errors.Is,
// each normally wrapped in an *Error via NewError before leaving a
// package boundary.
var (
	ErrEmptyQuestion       = errors.New("legalrag: question is empty")
	ErrQuestionTooLarge    = errors.New("legalrag: question exceeds maximum size")
	ErrDocumentIDRequired  = errors.New("legalrag: document id is required")
	ErrRawTextEmpty        = errors.New("legalrag: raw text is empty")
	ErrDimensionMismatch   = errors.New("legalrag: embedding dimension does not match index")
	ErrFusionWeightsInvalid = errors.New("legalrag: semantic_weight + keyword_weight must sum to 1")
	ErrZeroEmbedding       = errors.New("legalrag: embedding vector is all-zero")
	ErrNoSurvivors         = errors.New("legalrag: no candidates survived retrieval")
	ErrIndexUnreachable    = errors.New("legalrag: vector index unreachable")
	ErrEmbeddingFailed     = errors.New("legalrag: embedding request failed")
	ErrLLMFailed           = errors.New("legalrag: llm completion failed")
	ErrRateLimited         = errors.New("legalrag: external provider rate-limited the request")
)
