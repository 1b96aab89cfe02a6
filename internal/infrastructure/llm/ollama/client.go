// Package ollama is the generation collaborator: a thin client for the
// Ollama /api/generate endpoint. Model loading and GPU lifecycle are
// owned by the Ollama server, not by this process.
package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string) *Client {
	return NewWithExecutor(baseURL, model, nil)
}

func NewWithExecutor(baseURL, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

// Complete generates text for a fully built prompt. Failures surface as
// errors; retryable transport conditions are wrapped as ErrTemporary.
func (c *Client) Complete(ctx context.Context, prompt string, params domain.SamplingParams) (string, error) {
	reqBody := map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"stream":  false,
		"options": samplingOptions(params),
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/generate", reqBody, &response, "generate")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama.generate", call, resilience.ClassifyHTTPError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", resilience.WrapTemporary("ollama generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}

func samplingOptions(params domain.SamplingParams) map[string]any {
	options := map[string]any{}
	if params.MaxTokens > 0 {
		options["num_predict"] = params.MaxTokens
	}
	if params.Temperature > 0 {
		options["temperature"] = params.Temperature
	}
	if params.TopP > 0 {
		options["top_p"] = params.TopP
	}
	if params.TopK > 0 {
		options["top_k"] = params.TopK
	}
	if params.RepeatPenalty > 0 {
		options["repeat_penalty"] = params.RepeatPenalty
	}
	return options
}
