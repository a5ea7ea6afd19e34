package retrieval

import (
	"context"
	"sync"

	"github.com/brunobiangulo/legalrag"
)

// candidate is one merged semantic-search hit, keyed by chunk ID.
type candidate struct {
	chunkID       string
	text          string
	metadata      map[string]legalrag.MetadataValue
	semanticScore float64
}

// semanticFanOut runs Stage 1: embed and query the index concurrently
// for each query variant, then merge hits by chunk_id keeping the
// maximum semantic score observed for that chunk (spec.md §4.3).
func semanticFanOut(ctx context.Context, embedder legalrag.Embedder, index legalrag.Index, variants []string, topK int, filter map[string]legalrag.MetadataValue) (map[string]*candidate, error) {
	type fanOutResult struct {
		hits []legalrag.ScoredRecord
		err  error
	}

	results := make(chan fanOutResult, len(variants))
	var wg sync.WaitGroup
	for _, variant := range variants {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			embeddings, err := embedder.Embed(ctx, []string{q})
			if err != nil {
				results <- fanOutResult{err: legalrag.NewError(legalrag.KindTransientExternal, "retrieval.embed", err)}
				return
			}
			if len(embeddings) == 0 || embeddings[0].IsZero() {
				results <- fanOutResult{}
				return
			}
			hits, err := index.Query(ctx, embeddings[0], topK, filter)
			if err != nil {
				results <- fanOutResult{err: legalrag.NewError(legalrag.KindTransientExternal, "retrieval.index_query", err)}
				return
			}
			results <- fanOutResult{hits: hits}
		}(variant)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make(map[string]*candidate)
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		for _, hit := range r.hits {
			existing, ok := merged[hit.ChunkID]
			if !ok {
				merged[hit.ChunkID] = &candidate{
					chunkID:       hit.ChunkID,
					text:          hit.Text,
					metadata:      hit.Metadata,
					semanticScore: hit.Score,
				}
				continue
			}
			if hit.Score > existing.semanticScore {
				existing.semanticScore = hit.Score
			}
		}
	}

	// A variant failing to embed or query is tolerated as long as at
	// least one variant produced candidates; only surface the error
	// when every variant failed.
	if len(merged) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return merged, nil
}
