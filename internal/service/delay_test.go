package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelayStrategies(t *testing.T) {
	if d := (NoDelay{}).Next(); d != 0 {
		t.Errorf("NoDelay = %s", d)
	}
	if d := FixedDelay(2 * time.Second).Next(); d != 2*time.Second {
		t.Errorf("FixedDelay = %s", d)
	}

	tests := []struct {
		name  string
		float float64
		want  time.Duration
	}{
		{name: "lower bound", float: 0, want: time.Second},
		{name: "midpoint", float: 0.5, want: 2 * time.Second},
		{name: "quarter", float: 0.25, want: 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &UniformDelay{Min: time.Second, Max: 3 * time.Second, float: func() float64 { return tt.float }}
			if got := d.Next(); got != tt.want {
				t.Errorf("Next() = %s, want %s", got, tt.want)
			}
		})
	}

	if d := (&UniformDelay{Min: time.Second, Max: time.Second}).Next(); d != time.Second {
		t.Errorf("degenerate range = %s", d)
	}
}

func TestUniformDelayStaysInRange(t *testing.T) {
	d := NewUniformDelay(time.Second, 3*time.Second)
	for i := 0; i < 1000; i++ {
		got := d.Next()
		if got < time.Second || got >= 3*time.Second {
			t.Fatalf("Next() = %s, outside [1s, 3s)", got)
		}
	}
}

func TestAfterRunsTask(t *testing.T) {
	task := After(context.Background(), FixedDelay(time.Millisecond), func(context.Context) (int, error) {
		return 42, nil
	})
	got, err := task.Wait()
	if err != nil || got != 42 {
		t.Fatalf("Wait() = %d, %v", got, err)
	}

	select {
	case <-task.Done():
	default:
		t.Error("Done should be closed after Wait")
	}
}

func TestAfterPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := After(context.Background(), NoDelay{}, func(context.Context) (string, error) {
		return "", boom
	}).Wait()
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestAfterCancel(t *testing.T) {
	ran := false
	task := After(context.Background(), FixedDelay(time.Hour), func(context.Context) (int, error) {
		ran = true
		return 1, nil
	})
	task.Cancel()

	_, err := task.Wait()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if ran {
		t.Error("cancelled task must not run")
	}
}

func TestAfterContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := After(ctx, FixedDelay(time.Hour), func(context.Context) (int, error) { return 1, nil }).Wait()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("deadline did not interrupt the delay")
	}
}

func TestSleepWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep on cancelled ctx = %v", err)
	}
}
