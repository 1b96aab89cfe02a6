package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
)

// rewriteParams keeps the paraphrase short and near-deterministic.
var rewriteParams = domain.SamplingParams{
	MaxTokens:     50,
	Temperature:   0.3,
	TopP:          0.95,
	TopK:          50,
	RepeatPenalty: 1.1,
}

// QueryRewriter asks the generator for a search-optimized paraphrase of
// the user question. Rewriting is best effort: any generator failure or
// empty result falls back to the original query.
type QueryRewriter struct {
	generator ports.Generator
}

func NewQueryRewriter(generator ports.Generator) *QueryRewriter {
	return &QueryRewriter{generator: generator}
}

func (r *QueryRewriter) Rewrite(ctx context.Context, userQuery string) string {
	prompt := "یک نسخهٔ بازنویسی‌شدهٔ پرسش زیر را ارائه بده که هنگام جستجو در اسناد فارسی بیشترین احتمال یافتن متن مرتبط را داشته باشد:\n" +
		"پرسش اصلی: «" + userQuery + "»\n" +
		"بازنویسی‌شده:"

	rewritten, err := r.generator.Complete(ctx, prompt, rewriteParams)
	if err != nil {
		slog.Debug("query_rewrite_fallback", "error", err)
		return userQuery
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return userQuery
	}
	return rewritten
}
