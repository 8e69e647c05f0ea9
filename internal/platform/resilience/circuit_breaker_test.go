package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if !cb.Allow() {
		t.Fatal("breaker should stay closed below the threshold")
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}
	if cb.Allow() {
		t.Fatal("open breaker must reject calls")
	}
}

func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, Cooldown: 10 * time.Second})

	base := time.Now()
	cb.now = func() time.Time { return base }
	cb.RecordFailure()

	if cb.Allow() {
		t.Fatal("breaker should be open before the cooldown")
	}

	cb.now = func() time.Time { return base.Add(11 * time.Second) }
	if !cb.Allow() {
		t.Fatal("breaker should admit a probe after the cooldown")
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open", cb.State())
	}
	if cb.Allow() {
		t.Fatal("half-open breaker admits only one probe")
	}
}

func TestCircuitBreakerProbeOutcomes(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, Cooldown: time.Nanosecond})
	cb.RecordFailure()
	time.Sleep(time.Millisecond)

	if !cb.Allow() {
		t.Fatal("expected probe to be admitted")
	}
	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatal("failed probe must reopen the breaker")
	}

	time.Sleep(time.Millisecond)
	if !cb.Allow() {
		t.Fatal("expected second probe")
	}
	cb.RecordSuccess()
	if cb.State() != StateClosed {
		t.Fatal("successful probe must close the breaker")
	}
	if !cb.Allow() {
		t.Fatal("closed breaker must admit calls")
	}
}

func TestCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{})
	if cb.cfg.FailureThreshold != 5 || cb.cfg.Cooldown != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", cb.cfg)
	}
}
