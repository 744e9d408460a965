package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// DelayStrategy decides how long a simulated "thinking" pause lasts
type DelayStrategy interface {
	Next() time.Duration
}

// NoDelay never waits. Tests use it.
type NoDelay struct{}

func (NoDelay) Next() time.Duration { return 0 }

// FixedDelay always waits the same duration
type FixedDelay time.Duration

func (d FixedDelay) Next() time.Duration { return time.Duration(d) }

// UniformDelay picks a duration uniformly from [Min, Max)
type UniformDelay struct {
	Min, Max time.Duration
	float    func() float64
}

// NewUniformDelay returns a strategy backed by the global random source
func NewUniformDelay(min, max time.Duration) *UniformDelay {
	return &UniformDelay{Min: min, Max: max, float: rand.Float64}
}

func (d *UniformDelay) Next() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	f := rand.Float64
	if d.float != nil {
		f = d.float
	}
	return d.Min + time.Duration(f()*float64(d.Max-d.Min))
}

// Sleep waits for d or until ctx is done, whichever comes first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Task is a cancellable piece of work that starts after an artificial delay
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

// After starts fn once the delay picked by strategy has elapsed. Cancelling
// ctx or calling Cancel aborts the wait and fn is never run.
func After[T any](ctx context.Context, strategy DelayStrategy, fn func(context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}

	var wait time.Duration
	if strategy != nil {
		wait = strategy.Next()
	}

	go func() {
		defer close(t.done)
		defer cancel()

		if err := Sleep(ctx, wait); err != nil {
			t.err = err
			return
		}
		t.value, t.err = fn(ctx)
	}()

	return t
}

// Wait blocks until the task finishes and returns its result
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.value, t.err
}

// Done is closed once the task has finished or been cancelled
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts the task if it is still waiting or running
func (t *Task[T]) Cancel() {
	t.cancel()
}
