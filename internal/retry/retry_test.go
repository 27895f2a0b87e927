package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/retry"
)

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	policy := retry.NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	policy := retry.NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	policy := retry.NewPolicy(3, time.Millisecond)

	sentinel := errors.New("persistent failure")
	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return sentinel
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error chain lost the last failure: %v", err)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	policy := retry.NewPolicy(5, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Execute(ctx, func() error {
			calls++
			return errors.New("always fails")
		})
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error chain lost cancellation: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
