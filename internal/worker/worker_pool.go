package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const submitTimeout = time.Second

var ErrPoolSaturated = errors.New("worker pool task queue is full")

type Task func()

type WorkerPool struct {
	tasks         chan Task
	wg            sync.WaitGroup
	activeWorkers int
	maxWorkers    int
	logger        zerolog.Logger
	mu            sync.RWMutex
	stopOnce      sync.Once
}

func NewWorkerPool(maxWorkers int, logger zerolog.Logger) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &WorkerPool{
		tasks:      make(chan Task, maxWorkers*10),
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) error {
	wp.logger.Info().Int("max_workers", wp.maxWorkers).Msg("Starting worker pool")

	for i := 0; i < wp.maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	return nil
}

// Stop drains queued tasks and waits for the workers to exit.
func (wp *WorkerPool) Stop() error {
	wp.stopOnce.Do(func() {
		wp.logger.Info().Msg("Stopping worker pool")
		close(wp.tasks)
		wp.wg.Wait()
		wp.logger.Info().Msg("Worker pool stopped")
	})
	return nil
}

// Submit queues a task, waiting briefly when the queue is full.
func (wp *WorkerPool) Submit(task Task) error {
	select {
	case wp.tasks <- task:
		return nil
	default:
	}

	wp.logger.Warn().Msg("Worker pool task queue is full")
	select {
	case wp.tasks <- task:
		return nil
	case <-time.After(submitTimeout):
		wp.logger.Error().Msg("Failed to submit task to worker pool (timeout)")
		return ErrPoolSaturated
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug().Int("worker_id", id).Msg("Worker started")

	for task := range wp.tasks {
		wp.run(id, task)
	}

	wp.logger.Debug().Int("worker_id", id).Msg("Worker stopped")
}

func (wp *WorkerPool) run(id int, task Task) {
	wp.mu.Lock()
	wp.activeWorkers++
	wp.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error().
				Int("worker_id", id).
				Interface("panic", r).
				Msg("Worker recovered from panic")
		}

		wp.mu.Lock()
		wp.activeWorkers--
		wp.mu.Unlock()
	}()

	task()
}

func (wp *WorkerPool) GetActiveWorkers() int {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.activeWorkers
}

func (wp *WorkerPool) GetQueueLength() int {
	return len(wp.tasks)
}
