package ports

import (
	"context"
	"io"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

// Generator completes a fully built prompt with the external model
// backend. Failures are errors, never ambiguous success.
type Generator interface {
	Complete(ctx context.Context, prompt string, params domain.SamplingParams) (string, error)
}

// SemanticScorer scores (query, text) relevance pairs with a
// cross-encoder model, invoked in batches.
type SemanticScorer interface {
	Score(ctx context.Context, query string, texts []string, batchSize int) ([]float64, error)
}

// LexicalIndex scores a query against every chunk of the corpus.
// Scores are aligned with corpus positions; Position resolves a chunk
// back to its corpus position by content equality.
type LexicalIndex interface {
	Scores(query string) []float64
	Position(content string) (int, bool)
	Rebuild(ctx context.Context) error
}

// CandidateRetriever supplies the initial candidate chunks for a query.
type CandidateRetriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]domain.Chunk, error)
}

// ChunkStore supplies the ordered, stable chunk corpus and persists
// chunks produced by ingestion.
type ChunkStore interface {
	ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []string) error
	ListChunks(ctx context.Context) ([]domain.Chunk, error)
}

// DocumentRepository persists and reads source document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, count int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion and corpus-change events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
	PublishCorpusUpdated(ctx context.Context, documentID string) error
	SubscribeCorpusUpdated(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits extracted text into retrievable chunks.
type Chunker interface {
	Split(text string) []string
}

// InteractionLogger appends one record per completed exchange. Callers
// treat it as fire-and-forget: a logging failure never aborts the answer.
type InteractionLogger interface {
	Log(ctx context.Context, record domain.Interaction) error
}

// Dispatcher intercepts greetings and meta-questions before retrieval.
// handled=false lets the pipeline fall through to retrieval.
type Dispatcher interface {
	Handle(input string) (reply string, handled bool)
}
