package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	wp := NewWorkerPool(3, zerolog.Nop())
	if err := wp.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	var ran int64
	for i := 0; i < 20; i++ {
		if err := wp.Submit(func() { atomic.AddInt64(&ran, 1) }); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wp.Stop()

	if got := atomic.LoadInt64(&ran); got != 20 {
		t.Errorf("ran %d tasks, want 20", got)
	}
	if wp.GetActiveWorkers() != 0 {
		t.Errorf("active workers after stop = %d", wp.GetActiveWorkers())
	}
}

func TestWorkerPoolRecoversFromPanic(t *testing.T) {
	wp := NewWorkerPool(1, zerolog.Nop())
	wp.Start(context.Background())

	var ran int64
	wp.Submit(func() { panic("boom") })
	wp.Submit(func() { atomic.AddInt64(&ran, 1) })
	wp.Stop()
	wp.Stop()

	if atomic.LoadInt64(&ran) != 1 {
		t.Error("worker did not survive a panicking task")
	}
}
