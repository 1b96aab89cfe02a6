// Package crossencoder scores (query, document) pairs against a
// text-embeddings-inference style /rerank endpoint serving a
// cross-encoder relevance model.
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/parsa-ai/parsa/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string) *Client {
	return NewWithExecutor(baseURL, nil)
}

func NewWithExecutor(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

// Score returns one relevance score per text, in input order. Texts are
// submitted in batches of batchSize. Any failure propagates as an
// error; a missing model never silently scores zero.
func (c *Client) Score(ctx context.Context, query string, texts []string, batchSize int) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = 8
	}

	out := make([]float64, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		scores, err := c.scoreBatch(ctx, query, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, scores...)
	}
	return out, nil
}

func (c *Client) scoreBatch(ctx context.Context, query string, batch []string) ([]float64, error) {
	request := map[string]any{
		"query":      query,
		"texts":      batch,
		"raw_scores": true,
	}

	var response []struct {
		Index int     `json:"index"`
		Score float64 `json:"score"`
	}
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/rerank", request, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "crossencoder.rerank", call, resilience.ClassifyHTTPError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, resilience.WrapTemporary("crossencoder rerank", err)
	}

	if len(response) != len(batch) {
		return nil, fmt.Errorf("crossencoder rerank: %d scores for %d texts", len(response), len(batch))
	}
	scores := make([]float64, len(batch))
	for _, item := range response {
		if item.Index < 0 || item.Index >= len(batch) {
			return nil, fmt.Errorf("crossencoder rerank: score index %d out of range", item.Index)
		}
		scores[item.Index] = item.Score
	}
	return scores, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crossencoder rerank request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &resilience.HTTPStatusError{
			Operation:  "crossencoder rerank",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode rerank response: %w", err)
	}
	return nil
}
