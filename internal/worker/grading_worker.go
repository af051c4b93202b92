package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/worker/queue"
)

type GradingWorker interface {
	Start(ctx context.Context) error
	Stop() error
	GetStats() WorkerStats
}

type WorkerStats struct {
	ActiveWorkers  int `json:"active_workers"`
	TotalProcessed int `json:"total_processed"`
	GradedAnswers  int `json:"graded_answers"`
	FailedJobs     int `json:"failed_jobs"`
	QueueLength    int `json:"queue_length"`
}

type gradingWorker struct {
	workerPool    *WorkerPool
	queueConsumer queue.RabbitMQConsumer
	handler       queue.MessageHandler
	jobTimeout    time.Duration
	logger        zerolog.Logger
	stats         WorkerStats
	statsMutex    sync.RWMutex
	startTime     time.Time
	started       bool
	done          chan struct{}
}

func NewGradingWorker(
	workerPool *WorkerPool,
	queueConsumer queue.RabbitMQConsumer,
	handler queue.MessageHandler,
	jobTimeout time.Duration,
	logger zerolog.Logger,
) GradingWorker {
	return &gradingWorker{
		workerPool:    workerPool,
		queueConsumer: queueConsumer,
		handler:       handler,
		jobTimeout:    jobTimeout,
		logger:        logger,
		startTime:     time.Now(),
		done:          make(chan struct{}),
	}
}

func (w *gradingWorker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting grading worker...")

	if err := w.workerPool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	msgs, err := w.queueConsumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	w.started = true
	go w.processMessages(ctx, msgs)

	w.logger.Info().Msg("Grading worker started successfully")
	return nil
}

// Stop waits for the dispatch loop to exit before draining the pool, so no
// task is submitted to a closed queue.
func (w *gradingWorker) Stop() error {
	w.logger.Info().Msg("Stopping grading worker...")

	if err := w.queueConsumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close queue consumer")
	}

	if w.started {
		<-w.done
	}

	if err := w.workerPool.Stop(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to stop worker pool")
	}

	stats := w.GetStats()
	w.logger.Info().
		Int("total_processed", stats.TotalProcessed).
		Int("failed_jobs", stats.FailedJobs).
		Dur("uptime", time.Since(w.startTime)).
		Msg("Grading worker stopped")

	return nil
}

func (w *gradingWorker) processMessages(ctx context.Context, msgs <-chan queue.RabbitMQMessage) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping message processing")
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn().Msg("Message channel closed")
				return
			}

			if err := w.workerPool.Submit(func() { w.processMessage(ctx, msg) }); err != nil {
				if nackErr := msg.Nack(false, true); nackErr != nil {
					w.logger.Error().Err(nackErr).Msg("Failed to nack message")
				}
			}
		}
	}
}

func (w *gradingWorker) processMessage(ctx context.Context, msg queue.RabbitMQMessage) {
	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	result, err := w.handler.ProcessMessage(jobCtx, msg)
	if err != nil {
		w.logger.Error().
			Err(err).
			Bool("invalid_message", errors.Is(err, queue.ErrInvalidMessage)).
			Msg("Failed to process message, dropping it")

		w.statsMutex.Lock()
		w.stats.FailedJobs++
		w.statsMutex.Unlock()

		// no automatic redelivery; a failed exam is dropped and can be resubmitted
		if nackErr := msg.Nack(false, false); nackErr != nil {
			w.logger.Error().Err(nackErr).Msg("Failed to nack message")
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		w.logger.Error().Err(err).Msg("Failed to ack message")
	}

	w.statsMutex.Lock()
	w.stats.TotalProcessed++
	w.stats.GradedAnswers += result.GradedCount
	w.statsMutex.Unlock()

	w.logger.Info().
		Int64("exam_id", result.ExamID).
		Int("graded_count", result.GradedCount).
		Int("total_questions", result.TotalQuestions).
		Msg("Exam graded")
}

func (w *gradingWorker) GetStats() WorkerStats {
	w.statsMutex.RLock()
	stats := w.stats
	w.statsMutex.RUnlock()

	stats.ActiveWorkers = w.workerPool.GetActiveWorkers()
	stats.QueueLength = w.workerPool.GetQueueLength()
	return stats
}
