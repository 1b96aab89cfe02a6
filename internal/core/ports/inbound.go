package ports

import (
	"context"
	"io"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

// QuestionAnswerer is the inbound contract for one QA exchange.
type QuestionAnswerer interface {
	Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error)
}

// DocumentIngestor is the inbound contract for corpus document upload.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous corpus
// document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
