// Package lexical implements the BM25 ranker over the chunk corpus.
package lexical

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
	"github.com/parsa-ai/parsa/internal/infrastructure/persian"
)

// Okapi BM25 term saturation and length normalization parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// Index is a BM25 index over the chunk corpus. Reads (Scores, Position,
// Retrieve) are safe for concurrent use; Rebuild takes the write lock
// so no request ever observes a partially built index. Per-query scores
// are cached by the literal query string; the cache is dropped on
// rebuild.
type Index struct {
	store ports.ChunkStore

	mu         sync.RWMutex
	generation uint64
	chunks     []domain.Chunk
	docTokens  [][]string
	docLengths []int
	avgDocLen  float64
	docFreq    map[string]int
	positions  map[string]int
	queryCache map[string][]float64
}

func New(store ports.ChunkStore) *Index {
	return &Index{
		store:      store,
		docFreq:    map[string]int{},
		positions:  map[string]int{},
		queryCache: map[string][]float64{},
	}
}

// Rebuild reloads the corpus from the chunk store and reindexes it.
// The previous index keeps serving reads until the swap.
func (ix *Index) Rebuild(ctx context.Context) error {
	chunks, err := ix.store.ListChunks(ctx)
	if err != nil {
		return fmt.Errorf("list corpus chunks: %w", err)
	}

	docTokens := make([][]string, len(chunks))
	docLengths := make([]int, len(chunks))
	docFreq := make(map[string]int, 1024)
	positions := make(map[string]int, len(chunks))
	totalLen := 0

	for i, chunk := range chunks {
		tokens := persian.WordTokenize(chunk.Content)
		docTokens[i] = tokens
		docLengths[i] = len(tokens)
		totalLen += len(tokens)

		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			docFreq[token]++
		}

		if _, ok := positions[chunk.Content]; !ok {
			positions[chunk.Content] = i
		}
	}

	avgDocLen := 0.0
	if len(chunks) > 0 {
		avgDocLen = float64(totalLen) / float64(len(chunks))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.generation++
	ix.chunks = chunks
	ix.docTokens = docTokens
	ix.docLengths = docLengths
	ix.avgDocLen = avgDocLen
	ix.docFreq = docFreq
	ix.positions = positions
	ix.queryCache = map[string][]float64{}
	return nil
}

// Scores returns one BM25 score per corpus chunk, aligned with corpus
// positions.
func (ix *Index) Scores(query string) []float64 {
	ix.mu.RLock()
	if cached, ok := ix.queryCache[query]; ok {
		out := make([]float64, len(cached))
		copy(out, cached)
		ix.mu.RUnlock()
		return out
	}
	generation := ix.generation
	scores := ix.scoreAllLocked(query)
	ix.mu.RUnlock()

	// Cache only if no rebuild happened while scoring.
	ix.mu.Lock()
	if ix.generation == generation {
		ix.queryCache[query] = scores
	}
	ix.mu.Unlock()

	out := make([]float64, len(scores))
	copy(out, scores)
	return out
}

// Position resolves a chunk back to its corpus position by content
// equality.
func (ix *Index) Position(content string) (int, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	position, ok := ix.positions[content]
	return position, ok
}

// Retrieve returns the top limit corpus chunks by BM25 score. It serves
// as the default candidate retriever for the hybrid ranker.
func (ix *Index) Retrieve(_ context.Context, query string, limit int) ([]domain.Chunk, error) {
	scores := ix.Scores(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(scores) != len(ix.chunks) {
		// Corpus was rebuilt between scoring and ranking.
		scores = ix.scoreAllLocked(query)
	}
	if limit <= 0 || limit > len(ix.chunks) {
		limit = len(ix.chunks)
	}

	order := make([]int, len(ix.chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make([]domain.Chunk, 0, limit)
	for _, position := range order[:limit] {
		out = append(out, ix.chunks[position])
	}
	return out, nil
}

func (ix *Index) scoreAllLocked(query string) []float64 {
	scores := make([]float64, len(ix.chunks))
	if len(ix.chunks) == 0 {
		return scores
	}

	queryTokens := persian.WordTokenize(query)
	corpusSize := float64(len(ix.chunks))

	for _, term := range queryTokens {
		df := ix.docFreq[term]
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (corpusSize-float64(df)+0.5)/(float64(df)+0.5))

		for i, tokens := range ix.docTokens {
			tf := 0.0
			for _, token := range tokens {
				if token == term {
					tf++
				}
			}
			if tf == 0 {
				continue
			}
			lengthNorm := 1 - bm25B + bm25B*float64(ix.docLengths[i])/ix.avgDocLen
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*lengthNorm)
		}
	}
	return scores
}
