// Package bootstrap wires configuration, infrastructure adapters and
// use cases into a running application graph.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/parsa-ai/parsa/internal/config"
	"github.com/parsa-ai/parsa/internal/core/ports"
	"github.com/parsa-ai/parsa/internal/core/usecase"
	"github.com/parsa-ai/parsa/internal/dispatch"
	"github.com/parsa-ai/parsa/internal/infrastructure/chunking"
	"github.com/parsa-ai/parsa/internal/infrastructure/extractor"
	"github.com/parsa-ai/parsa/internal/infrastructure/extractor/excel"
	pdfextractor "github.com/parsa-ai/parsa/internal/infrastructure/extractor/pdf"
	"github.com/parsa-ai/parsa/internal/infrastructure/extractor/plaintext"
	"github.com/parsa-ai/parsa/internal/infrastructure/lexical"
	"github.com/parsa-ai/parsa/internal/infrastructure/llm/ollama"
	"github.com/parsa-ai/parsa/internal/infrastructure/logsink/jsonl"
	"github.com/parsa-ai/parsa/internal/infrastructure/persian"
	"github.com/parsa-ai/parsa/internal/infrastructure/queue/nats"
	"github.com/parsa-ai/parsa/internal/infrastructure/reranker/crossencoder"
	"github.com/parsa-ai/parsa/internal/infrastructure/repository/postgres"
	"github.com/parsa-ai/parsa/internal/infrastructure/resilience"
	"github.com/parsa-ai/parsa/internal/infrastructure/storage/localfs"
	"github.com/parsa-ai/parsa/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository
	Index *lexical.Index

	AskUC     ports.QuestionAnswerer
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor

	PipelineMetrics *metrics.PipelineMetrics
	WorkerMetrics   *metrics.WorkerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunks := postgres.NewChunkRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSIngestSubject, cfg.NATSCorpusSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	generator := ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaModel, executor)
	semantic := crossencoder.NewWithExecutor(cfg.RerankerURL, executor)

	index := lexical.New(chunks)

	interactions, err := jsonl.New(cfg.InteractionLogPath)
	if err != nil {
		return nil, fmt.Errorf("init interaction log: %w", err)
	}

	pipelineMetrics := metrics.NewPipelineMetrics(service)
	workerMetrics := metrics.NewWorkerMetrics(service)

	seed := cfg.DispatchSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	dispatcher := dispatch.New(seed)

	rerankOpts := usecase.RerankOptions{
		LexicalWeight:  cfg.LexicalWeight,
		SemanticWeight: cfg.SemanticWeight,
		BatchSize:      cfg.RerankerBatchSize,
	}
	if cfg.MinScoreSet {
		minScore := cfg.MinScore
		rerankOpts.MinScore = &minScore
	}

	askUC := usecase.NewAskUseCase(
		dispatcher,
		usecase.NewQueryRewriter(generator),
		index,
		usecase.NewHybridRanker(index, semantic),
		generator,
		usecase.NewResponseAuditor(generator),
		interactions,
		usecase.AskOptions{
			CandidateLimit: cfg.CandidateLimit,
			Rerank:         rerankOpts,
			Observer:       &pipelineObserver{metrics: pipelineMetrics, service: service},
		},
	)

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, persian.CleanText)
	extract := extractor.NewRouter(
		plaintext.NewExtractor(storage),
		pdfextractor.NewExtractor(storage),
		excel.NewExtractor(storage),
	)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, extract, chunker, chunks, queue)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,
		Index:  index,

		AskUC:     askUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,

		PipelineMetrics: pipelineMetrics,
		WorkerMetrics:   workerMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// pipelineObserver binds a service label to the shared pipeline metrics.
type pipelineObserver struct {
	metrics *metrics.PipelineMetrics
	service string
}

func (o *pipelineObserver) RecordAsk(outcome string) {
	o.metrics.RecordAsk(o.service, outcome)
}

func (o *pipelineObserver) ObserveStage(stage string, duration time.Duration) {
	o.metrics.ObserveStage(o.service, stage, duration)
}

func (o *pipelineObserver) RecordAuditVerdict(clean bool) {
	o.metrics.RecordAuditVerdict(o.service, clean)
}

func (o *pipelineObserver) RecordLeak() {
	o.metrics.RecordLeak()
}
