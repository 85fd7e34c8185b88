package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWaitEnforcesInterval(t *testing.T) {
	limiter := New(20) // 50ms interval keeps the test fast

	ctx := context.Background()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second wait returned after %v, want >= ~50ms", elapsed)
	}
}

func TestWaitSharedAcrossCallers(t *testing.T) {
	limiter := New(50)
	const callers = 5

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(context.Background()); err != nil {
				t.Errorf("wait: %v", err)
			}
		}()
	}
	wg.Wait()

	// Five callers at 20ms spacing need at least ~80ms after the first.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("concurrent waits finished in %v, want serialized spacing", elapsed)
	}
}

func TestWaitCancelled(t *testing.T) {
	limiter := New(0.1) // 10s interval, never satisfied in test time
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("prime limiter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected cancellation error from second wait")
	}
}

func TestNewNonPositiveRate(t *testing.T) {
	if limiter := New(0); limiter == nil {
		t.Fatal("expected limiter for zero rate")
	}
	if limiter := New(-3); limiter == nil {
		t.Fatal("expected limiter for negative rate")
	}
}

func TestNilLimiterWaits(t *testing.T) {
	var limiter *Limiter
	if err := limiter.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter wait: %v", err)
	}
}
