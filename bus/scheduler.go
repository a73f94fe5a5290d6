package bus

import (
	"context"
	"runtime"
	"time"
)

// Scheduler decides how a Transport waits. It is consulted for every fixed
// delay and between the chunks of a long transfer.
type Scheduler interface {
	// Delay waits for d.
	Delay(ctx context.Context, d time.Duration) error
	// Yield is a suspension point between two transfers.
	Yield(ctx context.Context) error
}

// Blocking keeps the calling goroutine for the whole operation. Cancellation
// is not observed; operations always run to completion.
type Blocking struct{}

// Delay implements Scheduler.
func (Blocking) Delay(_ context.Context, d time.Duration) error {
	time.Sleep(d)
	return nil
}

// Yield implements Scheduler.
func (Blocking) Yield(context.Context) error { return nil }

// Cooperative suspends on timers and gives other goroutines a chance to run
// between chunks. It returns the context error as soon as ctx is done.
type Cooperative struct{}

// Delay implements Scheduler.
func (Cooperative) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Yield implements Scheduler.
func (Cooperative) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}
