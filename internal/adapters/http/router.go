// Package httpadapter exposes the question-answering and document
// ingestion use cases over HTTP.
package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
)

type Router struct {
	askUC    ports.QuestionAnswerer
	ingestUC ports.DocumentIngestor
	repo     ports.DocumentRepository
	metrics  http.Handler
	limiter  *rate.Limiter
}

func NewRouter(
	askUC ports.QuestionAnswerer,
	ingestUC ports.DocumentIngestor,
	repo ports.DocumentRepository,
	metricsHandler http.Handler,
	limiter *rate.Limiter,
) *Router {
	return &Router{
		askUC:    askUC,
		ingestUC: ingestUC,
		repo:     repo,
		metrics:  metricsHandler,
		limiter:  limiter,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/ask", rt.ask)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics)
	}
	return requestIDMiddleware(accessLogMiddleware(rateLimitMiddleware(rt.limiter, mux)))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type askRequest struct {
	Question string `json:"question"`
	History  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"history"`
}

type askResponse struct {
	Answer  string       `json:"answer"`
	Clean   bool         `json:"clean"`
	Sources []sourceItem `json:"sources,omitempty"`
}

type sourceItem struct {
	Content string  `json:"content"`
	Index   int     `json:"index"`
	Score   float64 `json:"score"`
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	history := make([]domain.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, domain.Message{Role: m.Role, Content: m.Content})
	}

	answer, err := rt.askUC.Ask(r.Context(), domain.AskRequest{
		Question: req.Question,
		History:  history,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	resp := askResponse{Answer: answer.Text, Clean: answer.Clean}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceItem{
			Content: src.Content,
			Index:   src.Index,
			Score:   src.Score,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// writeError maps domain error kinds to status codes. Internal detail
// stays in the log; clients only see the sanitized kind message.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status >= 500 {
		message = publicErrorMessage(err)
	}
	writeJSON(w, status, map[string]string{
		"error":      message,
		"request_id": requestIDFromContext(r.Context()),
	})
}

func publicErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrGenerationFailure):
		return "answer generation failed"
	case errors.Is(err, domain.ErrTemporary):
		return "service temporarily unavailable"
	default:
		return "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
