package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRewriteReturnsGeneratorOutput(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"  مکان گربه  "}}
	rewriter := NewQueryRewriter(gen)

	got := rewriter.Rewrite(context.Background(), "گربه کجاست")
	if got != "مکان گربه" {
		t.Fatalf("got %q, want trimmed rewrite", got)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "گربه کجاست") {
		t.Fatalf("prompt must carry the original query, got %v", gen.prompts)
	}
	if gen.params[0] != rewriteParams {
		t.Fatalf("params = %+v, want rewrite params", gen.params[0])
	}
}

func TestRewriteFallsBackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model offline")}
	rewriter := NewQueryRewriter(gen)

	got := rewriter.Rewrite(context.Background(), "گربه کجاست")
	if got != "گربه کجاست" {
		t.Fatalf("got %q, want original query on failure", got)
	}
}

func TestRewriteFallsBackOnEmptyResult(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"   "}}
	rewriter := NewQueryRewriter(gen)

	got := rewriter.Rewrite(context.Background(), "گربه کجاست")
	if got != "گربه کجاست" {
		t.Fatalf("got %q, want original query on empty rewrite", got)
	}
}
