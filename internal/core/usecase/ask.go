package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
)

const (
	defaultCandidateLimit = 30

	// leakRefusalText replaces any response the leak guard rejects. The
	// offending text is never surfaced or logged.
	leakRefusalText = "متأسفم، نمایش این پاسخ ممکن نیست. لطفاً پرسش خود را دوباره مطرح کنید."

	suppressedResponseMarker = "[response suppressed: leak detected]"
)

// Ask outcomes reported to the pipeline observer.
const (
	OutcomeAnswered   = "answered"
	OutcomeDispatched = "dispatched"
	OutcomeRejected   = "rejected"
	OutcomeSuppressed = "suppressed"
	OutcomeFailed     = "failed"
)

var answerParams = domain.SamplingParams{
	MaxTokens:     512,
	Temperature:   0.7,
	TopP:          0.9,
	TopK:          40,
	RepeatPenalty: 1.1,
}

// PipelineObserver receives pipeline telemetry. All methods must be
// cheap and non-blocking.
type PipelineObserver interface {
	RecordAsk(outcome string)
	ObserveStage(stage string, duration time.Duration)
	RecordAuditVerdict(clean bool)
	RecordLeak()
}

type AskOptions struct {
	CandidateLimit int
	Rerank         RerankOptions
	Observer       PipelineObserver
}

// AskUseCase runs one question-answering exchange: sanitize, dispatch,
// rewrite, retrieve, rerank, assemble context, prompt with a fresh
// canary, generate, leak-guard, audit, log.
type AskUseCase struct {
	dispatcher   ports.Dispatcher
	rewriter     *QueryRewriter
	retriever    ports.CandidateRetriever
	ranker       *HybridRanker
	generator    ports.Generator
	auditor      *ResponseAuditor
	interactions ports.InteractionLogger
	opts         AskOptions
}

func NewAskUseCase(
	dispatcher ports.Dispatcher,
	rewriter *QueryRewriter,
	retriever ports.CandidateRetriever,
	ranker *HybridRanker,
	generator ports.Generator,
	auditor *ResponseAuditor,
	interactions ports.InteractionLogger,
	opts AskOptions,
) *AskUseCase {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = defaultCandidateLimit
	}
	return &AskUseCase{
		dispatcher:   dispatcher,
		rewriter:     rewriter,
		retriever:    retriever,
		ranker:       ranker,
		generator:    generator,
		auditor:      auditor,
		interactions: interactions,
		opts:         opts,
	}
}

func (uc *AskUseCase) Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error) {
	answer, outcome, err := uc.ask(ctx, req)
	if obs := uc.opts.Observer; obs != nil {
		obs.RecordAsk(outcome)
	}
	return answer, err
}

func (uc *AskUseCase) ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, string, error) {
	question, err := SanitizeQuestion(req.Question)
	if err != nil {
		return nil, OutcomeRejected, err
	}

	if uc.dispatcher != nil {
		if reply, handled := uc.dispatcher.Handle(question); handled {
			uc.logExchange(ctx, question, "", reply, true)
			return &domain.Answer{Text: reply, Clean: true}, OutcomeDispatched, nil
		}
	}

	rewritten := uc.stageText("rewrite", func() string {
		return uc.rewriter.Rewrite(ctx, question)
	})

	var candidates []domain.Chunk
	err = uc.stage("retrieve", func() error {
		var retrieveErr error
		candidates, retrieveErr = uc.retriever.Retrieve(ctx, rewritten, uc.opts.CandidateLimit)
		return retrieveErr
	})
	if err != nil {
		return nil, OutcomeFailed, fmt.Errorf("retrieve candidates: %w", err)
	}

	var ranked []domain.RankedChunk
	err = uc.stage("rerank", func() error {
		var rankErr error
		ranked, rankErr = uc.ranker.Rerank(ctx, rewritten, candidates, uc.opts.Rerank)
		return rankErr
	})
	if err != nil {
		return nil, OutcomeFailed, fmt.Errorf("rerank candidates: %w", err)
	}

	// An empty retrieval still answers: the prompt carries the empty
	// context and the persona instructs the model to say it doesn't know.
	contextText, _ := BuildContext(ranked)

	canary := NewCanary()
	prompt, err := BuildPrompt(contextText, question, rewritten, req.History, canary)
	if err != nil {
		return nil, OutcomeFailed, err
	}

	var response string
	err = uc.stage("generate", func() error {
		var genErr error
		response, genErr = uc.generator.Complete(ctx, prompt, answerParams)
		return genErr
	})
	if err != nil {
		return nil, OutcomeFailed, domain.WrapError(domain.ErrGenerationFailure, "generate answer", err)
	}

	if !TokenIsValid(response, canary) {
		if obs := uc.opts.Observer; obs != nil {
			obs.RecordLeak()
		}
		uc.logExchange(ctx, question, contextText, suppressedResponseMarker, false)
		return &domain.Answer{Text: leakRefusalText, Clean: false}, OutcomeSuppressed, nil
	}

	var clean bool
	_ = uc.stage("audit", func() error {
		clean = uc.auditor.Audit(ctx, response, contextText)
		return nil
	})
	if obs := uc.opts.Observer; obs != nil {
		obs.RecordAuditVerdict(clean)
	}

	uc.logExchange(ctx, question, contextText, response, clean)

	return &domain.Answer{Text: response, Sources: ranked, Clean: clean}, OutcomeAnswered, nil
}

func (uc *AskUseCase) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if obs := uc.opts.Observer; obs != nil {
		obs.ObserveStage(name, time.Since(start))
	}
	return err
}

func (uc *AskUseCase) stageText(name string, fn func() string) string {
	var out string
	_ = uc.stage(name, func() error {
		out = fn()
		return nil
	})
	return out
}

func (uc *AskUseCase) logExchange(ctx context.Context, question, contextText, response string, clean bool) {
	if uc.interactions == nil {
		return
	}
	record := domain.Interaction{
		Timestamp: time.Now().UTC(),
		Question:  question,
		Context:   contextText,
		Response:  response,
		IsClean:   clean,
	}
	if err := uc.interactions.Log(ctx, record); err != nil {
		slog.Warn("interaction_log_failed", "error", err)
	}
}
