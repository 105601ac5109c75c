package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff_Defaults(t *testing.T) {
	strategy := NewExponentialBackoff(3)

	if strategy.InitialDelay() != 100*time.Millisecond {
		t.Errorf("Expected InitialDelay=100ms, got %v", strategy.InitialDelay())
	}
	if strategy.MaxDelay() != 30*time.Second {
		t.Errorf("Expected MaxDelay=30s, got %v", strategy.MaxDelay())
	}
	if strategy.MaxAttempts() != 3 {
		t.Errorf("Expected MaxAttempts=3, got %v", strategy.MaxAttempts())
	}
}

func TestExponentialBackoff_NextDelayWithoutJitter(t *testing.T) {
	strategy := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithJitter(0), // deterministic
	)

	tests := []struct {
		attempt       int
		expectedDelay time.Duration
	}{
		{attempt: 0, expectedDelay: 100 * time.Millisecond},
		{attempt: 1, expectedDelay: 200 * time.Millisecond},
		{attempt: 2, expectedDelay: 400 * time.Millisecond},
		{attempt: 3, expectedDelay: 800 * time.Millisecond},
	}

	for _, tt := range tests {
		delay := strategy.NextDelay(tt.attempt)
		if delay != tt.expectedDelay {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, delay, tt.expectedDelay)
		}
	}
}

func TestExponentialBackoff_MaxDelayCap(t *testing.T) {
	strategy := NewExponentialBackoff(10,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithMaxDelay(1*time.Second),
		WithJitter(0),
	)

	// 100ms * 2^10 far exceeds the cap.
	delay := strategy.NextDelay(10)
	if delay != 1*time.Second {
		t.Errorf("NextDelay(10) = %v, want %v (should be capped)", delay, 1*time.Second)
	}
}

func TestExponentialBackoff_DeterministicJitter(t *testing.T) {
	// jitterFunc returning 0.5 maps to zero offset, so the delay is unchanged.
	strategy := NewExponentialBackoff(3,
		WithInitialDelay(100*time.Millisecond),
		WithJitter(0.1),
		WithJitterFunc(func() float64 { return 0.5 }),
	)

	if delay := strategy.NextDelay(0); delay != 100*time.Millisecond {
		t.Errorf("NextDelay(0) = %v, want 100ms with centered jitter", delay)
	}

	// jitterFunc returning 1.0 maps to +jitter: 100ms * 1.1 = 110ms.
	high := NewExponentialBackoff(3,
		WithInitialDelay(100*time.Millisecond),
		WithJitter(0.1),
		WithJitterFunc(func() float64 { return 1.0 }),
	)
	if delay := high.NextDelay(0); delay != 110*time.Millisecond {
		t.Errorf("NextDelay(0) = %v, want 110ms with +10%% jitter", delay)
	}
}
