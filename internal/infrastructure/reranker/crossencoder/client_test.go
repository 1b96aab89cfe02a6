package crossencoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

func rerankHandler(t *testing.T, requests *[]rerankRequest, scoreOf func(text string) float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rerank" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		*requests = append(*requests, req)

		type item struct {
			Index int     `json:"index"`
			Score float64 `json:"score"`
		}
		// Respond in reverse order to prove index-based reassembly.
		out := make([]item, 0, len(req.Texts))
		for i := len(req.Texts) - 1; i >= 0; i-- {
			out = append(out, item{Index: i, Score: scoreOf(req.Texts[i])})
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func TestScoreReturnsScoresInInputOrder(t *testing.T) {
	var requests []rerankRequest
	server := httptest.NewServer(rerankHandler(t, &requests, func(text string) float64 {
		if text == "گربه روی دیوار است" {
			return 3.5
		}
		return -1.0
	}))
	defer server.Close()

	client := New(server.URL)
	scores, err := client.Score(context.Background(), "گربه کجاست", []string{"گربه روی دیوار است", "سگ در حیاط است"}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 2 || scores[0] != 3.5 || scores[1] != -1.0 {
		t.Fatalf("scores = %v", scores)
	}

	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}
	if requests[0].Query != "گربه کجاست" || !requests[0].RawScores {
		t.Fatalf("request = %+v", requests[0])
	}
}

func TestScoreBatchesRequests(t *testing.T) {
	var requests []rerankRequest
	server := httptest.NewServer(rerankHandler(t, &requests, func(string) float64 { return 1 }))
	defer server.Close()

	texts := []string{"یک", "دو", "سه", "چهار", "پنج"}
	client := New(server.URL)
	scores, err := client.Score(context.Background(), "سوال", texts, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != len(texts) {
		t.Fatalf("got %d scores, want %d", len(scores), len(texts))
	}
	if len(requests) != 3 {
		t.Fatalf("got %d batches, want 3", len(requests))
	}
	if len(requests[0].Texts) != 2 || len(requests[2].Texts) != 1 {
		t.Fatalf("unexpected batch sizes: %v", requests)
	}
}

func TestScoreEmptyTexts(t *testing.T) {
	client := New("http://unused")
	scores, err := client.Score(context.Background(), "سوال", nil, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores != nil {
		t.Fatalf("scores = %v, want nil", scores)
	}
}

func TestScoreRejectsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"index": 0, "score": 1.0}})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Score(context.Background(), "سوال", []string{"یک", "دو"}, 8)
	if err == nil {
		t.Fatal("expected error on score count mismatch")
	}
}

func TestScoreRejectsOutOfRangeIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"index": 5, "score": 1.0}})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Score(context.Background(), "سوال", []string{"یک"}, 8)
	if err == nil {
		t.Fatal("expected error on out-of-range index")
	}
}

func TestScoreServerErrorWrapsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Score(context.Background(), "سوال", []string{"یک"}, 8)
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("retryable status must wrap as temporary, got %v", err)
	}
}
