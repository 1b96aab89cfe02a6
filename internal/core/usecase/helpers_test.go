package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

// fakeGenerator answers Complete calls from a queue of scripted
// responses and records every prompt it saw.
type fakeGenerator struct {
	responses []string
	err       error
	prompts   []string
	params    []domain.SamplingParams
}

func (g *fakeGenerator) Complete(_ context.Context, prompt string, params domain.SamplingParams) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.params = append(g.params, params)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", errors.New("fakeGenerator: no scripted response")
	}
	response := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return response, nil
}

type fakeLexical struct {
	scores    []float64
	positions map[string]int
}

func (l *fakeLexical) Scores(string) []float64 {
	out := make([]float64, len(l.scores))
	copy(out, l.scores)
	return out
}

func (l *fakeLexical) Position(content string) (int, bool) {
	position, ok := l.positions[content]
	return position, ok
}

func (l *fakeLexical) Rebuild(context.Context) error { return nil }

type fakeScorer struct {
	scores []float64
	err    error
	calls  int
}

func (s *fakeScorer) Score(_ context.Context, _ string, texts []string, _ int) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.scores) >= len(texts) {
		return s.scores[:len(texts)], nil
	}
	return s.scores, nil
}

type fakeRetriever struct {
	chunks []domain.Chunk
	err    error
	query  string
	limit  int
}

func (r *fakeRetriever) Retrieve(_ context.Context, query string, limit int) ([]domain.Chunk, error) {
	r.query = query
	r.limit = limit
	return r.chunks, r.err
}

type fakeDispatcher struct {
	reply   string
	handled bool
}

func (d *fakeDispatcher) Handle(string) (string, bool) { return d.reply, d.handled }

type fakeInteractionLog struct {
	records []domain.Interaction
	err     error
}

func (l *fakeInteractionLog) Log(_ context.Context, record domain.Interaction) error {
	l.records = append(l.records, record)
	return l.err
}

type fakeDocumentRepo struct {
	docs     map[string]*domain.Document
	statuses []string
	counts   map[string]int
	err      error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:   make(map[string]*domain.Document),
		counts: make(map[string]int),
	}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	if r.err != nil {
		return r.err
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id "+id))
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	r.statuses = append(r.statuses, string(status))
	if doc, ok := r.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (r *fakeDocumentRepo) SetChunkCount(_ context.Context, id string, count int) error {
	r.counts[id] = count
	return nil
}

type fakeObjectStorage struct {
	saved map[string]string
	err   error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{saved: make(map[string]string)}
}

func (s *fakeObjectStorage) Save(_ context.Context, key string, data io.Reader) error {
	if s.err != nil {
		return s.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.saved[key] = string(raw)
	return nil
}

func (s *fakeObjectStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := s.saved[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type fakeQueue struct {
	ingested []string
	updated  []string
	err      error
}

func (q *fakeQueue) PublishDocumentIngested(_ context.Context, documentID string) error {
	if q.err != nil {
		return q.err
	}
	q.ingested = append(q.ingested, documentID)
	return nil
}

func (q *fakeQueue) PublishCorpusUpdated(_ context.Context, documentID string) error {
	if q.err != nil {
		return q.err
	}
	q.updated = append(q.updated, documentID)
	return nil
}

func (q *fakeQueue) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

func (q *fakeQueue) SubscribeCorpusUpdated(context.Context, func(context.Context, string) error) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Extract(context.Context, *domain.Document) (string, error) {
	return e.text, e.err
}

type fakeChunker struct {
	chunks []string
}

func (c *fakeChunker) Split(string) []string { return c.chunks }

type fakeChunkStore struct {
	replaced map[string][]string
	listed   []domain.Chunk
	err      error
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{replaced: make(map[string][]string)}
}

func (s *fakeChunkStore) ReplaceDocumentChunks(_ context.Context, documentID string, chunks []string) error {
	if s.err != nil {
		return s.err
	}
	s.replaced[documentID] = chunks
	return nil
}

func (s *fakeChunkStore) ListChunks(context.Context) ([]domain.Chunk, error) {
	return s.listed, s.err
}
