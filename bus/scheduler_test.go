package bus

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCooperativeDelay(t *testing.T) {
	var s Cooperative
	if err := s.Delay(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Delay() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := s.Delay(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Delay() on cancelled context = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Delay() did not return promptly after cancellation")
	}
}

func TestCooperativeYield(t *testing.T) {
	var s Cooperative
	if err := s.Yield(context.Background()); err != nil {
		t.Errorf("Yield() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Yield(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Yield() = %v, want context.Canceled", err)
	}
}

func TestBlockingIgnoresCancellation(t *testing.T) {
	var s Blocking
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := s.Delay(ctx, 5*time.Millisecond); err != nil {
		t.Errorf("Delay() error = %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Blocking.Delay returned before the delay elapsed")
	}
	if err := s.Yield(ctx); err != nil {
		t.Errorf("Yield() error = %v", err)
	}
}
