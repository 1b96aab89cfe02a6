package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2.0,
		BreakerEnabled:      false,
	}
}

func retryAll(error) ErrorClassification {
	return ErrorClassification{Retryable: true, RecordFailure: true}
}

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	}, retryAll)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, retryAll)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	executor := NewExecutor(fastConfig())

	boom := errors.New("still broken")
	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return boom
	}, retryAll)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExecuteDoesNotRetryFinalErrors(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("bad request")
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	executor := NewExecutor(fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := executor.Execute(ctx, "op", func(context.Context) error {
		calls++
		return nil
	}, retryAll)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestExecuteCancelDuringBackoff(t *testing.T) {
	executor := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 200 * time.Millisecond,
		RetryMaxBackoff:     200 * time.Millisecond,
		RetryMultiplier:     2.0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("transient")
	calls := 0
	err := executor.Execute(ctx, "op", func(context.Context) error {
		calls++
		cancel()
		return boom
	}, retryAll)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.RetryMaxAttempts = 1
	executor := NewExecutor(cfg)

	boom := errors.New("down")
	for i := 0; i < 2; i++ {
		if err := executor.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, retryAll); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: err = %v, want %v", i, err, boom)
		}
	}

	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatal("callback must not run while the breaker is open")
		return nil
	}, retryAll)
	if !IsCircuitOpen(err) {
		t.Fatalf("err = %v, want open circuit", err)
	}
}

func TestBreakerIgnoresUnrecordedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.RetryMaxAttempts = 1
	executor := NewExecutor(cfg)

	skip := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	}

	boom := errors.New("caller's fault")
	for i := 0; i < 5; i++ {
		if err := executor.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, skip); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: err = %v, want %v", i, err, boom)
		}
	}

	if err := executor.Execute(context.Background(), "op", func(context.Context) error {
		return nil
	}, skip); err != nil {
		t.Fatalf("breaker must stay closed, got %v", err)
	}
}

func TestBreakersAreIndependentPerOperation(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.RetryMaxAttempts = 1
	executor := NewExecutor(cfg)

	boom := errors.New("down")
	for i := 0; i < 2; i++ {
		_ = executor.Execute(context.Background(), "broken", func(context.Context) error {
			return boom
		}, retryAll)
	}

	if err := executor.Execute(context.Background(), "healthy", func(context.Context) error {
		return nil
	}, retryAll); err != nil {
		t.Fatalf("unrelated operation must not share the breaker, got %v", err)
	}
}

func TestExecuteNilCallback(t *testing.T) {
	executor := NewExecutor(fastConfig())
	if err := executor.Execute(context.Background(), "op", nil, nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

func TestNextBackoffCapped(t *testing.T) {
	cfg := Config{RetryMaxBackoff: 3 * time.Millisecond, RetryMultiplier: 10}
	if got := nextBackoff(time.Millisecond, cfg); got != 3*time.Millisecond {
		t.Fatalf("nextBackoff = %v, want cap", got)
	}
}
