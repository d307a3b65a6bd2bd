package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteClassifiesFailures(t *testing.T) {
	transient := errors.New("upstream 503")
	permanent := errors.New("upstream 404")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	b := NewCircuitBreaker(1, time.Minute, 1)
	if err := b.Execute(func() error { return permanent }, isTransient); !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error to pass through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("non-transient error must not open breaker, got %s", state)
	}

	if err := b.Execute(func() error { return transient }, isTransient); !errors.Is(err, transient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if err := b.Execute(func() error { return nil }, isTransient); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected breaker to reject after transient failure, got %v", err)
	}
}

func TestCircuitBreaker_NilIsPermissive(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	calls := 0
	if err := b.Execute(func() error { calls++; return nil }, nil); err != nil {
		t.Fatalf("nil breaker execute: %v", err)
	}
	if calls != 1 || b.State() != CircuitStateClosed {
		t.Fatalf("unexpected nil breaker behavior calls=%d state=%s", calls, b.State())
	}
}
