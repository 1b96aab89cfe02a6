package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
)

const (
	// rerankResultCap is the fixed upper bound of the fusion output.
	rerankResultCap = 5

	// fallbackCorpusPosition is the named policy for candidates whose
	// content cannot be located in the corpus: they take the lexical
	// score of the first corpus chunk. Misses should not happen when
	// candidates come from the same store the index was built from.
	fallbackCorpusPosition = 0

	defaultLexicalWeight  = 0.4
	defaultSemanticWeight = 0.6
	defaultRerankBatch    = 8
)

type RerankOptions struct {
	LexicalWeight  float64
	SemanticWeight float64
	BatchSize      int
	// MinScore drops every result with a fused score strictly below it.
	MinScore *float64
}

func (o RerankOptions) withDefaults() RerankOptions {
	if o.LexicalWeight == 0 && o.SemanticWeight == 0 {
		o.LexicalWeight = defaultLexicalWeight
		o.SemanticWeight = defaultSemanticWeight
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultRerankBatch
	}
	return o
}

// HybridRanker fuses BM25-style lexical scores with cross-encoder
// semantic scores. Both families are min-max normalized independently
// before the weighted sum so their raw ranges stay comparable.
type HybridRanker struct {
	lexical  ports.LexicalIndex
	semantic ports.SemanticScorer
}

func NewHybridRanker(lexical ports.LexicalIndex, semantic ports.SemanticScorer) *HybridRanker {
	return &HybridRanker{lexical: lexical, semantic: semantic}
}

// Rerank scores every candidate lexically and semantically, fuses the
// normalized scores and returns at most five results in descending
// fused order. The sort is stable: ties keep the candidate order.
func (r *HybridRanker) Rerank(ctx context.Context, query string, candidates []domain.Chunk, opts RerankOptions) ([]domain.RankedChunk, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	opts = opts.withDefaults()

	corpusScores := r.lexical.Scores(query)
	lexicalScores := make([]float64, len(candidates))
	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		position, ok := r.lexical.Position(candidate.Content)
		if !ok {
			position = fallbackCorpusPosition
		}
		if position < len(corpusScores) {
			lexicalScores[i] = corpusScores[position]
		}
		texts[i] = candidate.Content
	}

	semanticScores, err := r.semantic.Score(ctx, query, texts, opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("semantic scoring: %w", err)
	}
	if len(semanticScores) != len(candidates) {
		return nil, fmt.Errorf("semantic scoring: %d scores for %d candidates", len(semanticScores), len(candidates))
	}

	lexicalNorm := minMaxNormalize(lexicalScores)
	semanticNorm := minMaxNormalize(semanticScores)

	ranked := make([]domain.RankedChunk, len(candidates))
	for i, candidate := range candidates {
		ranked[i] = domain.RankedChunk{
			Chunk: candidate,
			Score: opts.LexicalWeight*lexicalNorm[i] + opts.SemanticWeight*semanticNorm[i],
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if opts.MinScore != nil {
		kept := ranked[:0]
		for _, candidate := range ranked {
			if candidate.Score >= *opts.MinScore {
				kept = append(kept, candidate)
			}
		}
		ranked = kept
	}

	if len(ranked) > rerankResultCap {
		ranked = ranked[:rerankResultCap]
	}
	return ranked, nil
}
