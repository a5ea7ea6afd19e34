package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/chunker"
)

type handler struct {
	svc           *legalrag.Service
	queryDeadline time.Duration
}

func newHandler(svc *legalrag.Service, queryDeadline time.Duration) *handler {
	return &handler{svc: svc, queryDeadline: queryDeadline}
}

// POST /ingest
func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	var req struct {
		DocumentID string `json:"document_id"`
		Title      string `json:"title"`
		DocType    string `json:"doc_type"`
		Text       string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := h.svc.Ingest(ctx, req.DocumentID, req.Title, chunker.DocType(req.DocType), req.Text)
	if err != nil {
		writeServiceError(w, err)
		slog.Error("ingest error", "document_id", req.DocumentID, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chunks_written": result.ChunksWritten,
		"warnings":       result.Warnings,
	})
}

// POST /query
func (h *handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.queryDeadline)
	defer cancel()

	var req struct {
		Question      string   `json:"question"`
		TopK          int      `json:"top_k,omitempty"`
		BaseThreshold *float64 `json:"base_threshold,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var opts []legalrag.QueryOption
	if req.TopK > 0 {
		opts = append(opts, legalrag.WithTopK(req.TopK))
	}
	if req.BaseThreshold != nil {
		opts = append(opts, legalrag.WithBaseThreshold(*req.BaseThreshold))
	}

	resp, err := h.svc.Query(ctx, req.Question, opts...)
	if err != nil {
		writeServiceError(w, err)
		slog.Error("query error", "question", req.Question, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /analyze
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Analyze(req.Question))
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a legalrag.Kind to an HTTP status, giving callers a
// way to distinguish their own mistakes from upstream provider failures.
func writeServiceError(w http.ResponseWriter, err error) {
	switch legalrag.KindOf(err) {
	case legalrag.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case legalrag.KindTransientExternal, legalrag.KindHardExternal:
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("internal error: %s", err))
	}
}
