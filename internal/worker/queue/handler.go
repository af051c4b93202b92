package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

// ErrInvalidMessage marks a message body that is not an exam submission.
var ErrInvalidMessage = errors.New("invalid message")

// ExamGrader is the batch grading entry point the handler drives.
type ExamGrader interface {
	BatchGradeExam(ctx context.Context, examID int64) *models.BatchGradeResult
}

type MessageHandler interface {
	HandleExamSubmitted(ctx context.Context, event models.ExamSubmittedEvent) (*models.BatchGradeResult, error)
	ProcessMessage(ctx context.Context, msg RabbitMQMessage) (*models.BatchGradeResult, error)
}

type messageHandler struct {
	grader ExamGrader
	logger zerolog.Logger
}

func NewMessageHandler(grader ExamGrader, logger zerolog.Logger) MessageHandler {
	return &messageHandler{
		grader: grader,
		logger: logger,
	}
}

// HandleExamSubmitted grades an exam. A result without Success means the exam
// itself could not be fetched and is reported as an error.
func (h *messageHandler) HandleExamSubmitted(ctx context.Context, event models.ExamSubmittedEvent) (*models.BatchGradeResult, error) {
	h.logger.Info().
		Str("event_id", event.EventID).
		Int64("exam_id", event.ExamID).
		Msg("Handling exam submitted event")

	result := h.grader.BatchGradeExam(ctx, event.ExamID)
	if !result.Success {
		return result, fmt.Errorf("batch grading of exam %d failed: %s", event.ExamID, result.Error)
	}
	return result, nil
}

func (h *messageHandler) ProcessMessage(ctx context.Context, msg RabbitMQMessage) (*models.BatchGradeResult, error) {
	var event models.ExamSubmittedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if event.ExamID <= 0 {
		return nil, fmt.Errorf("%w: exam_id must be positive", ErrInvalidMessage)
	}
	return h.HandleExamSubmitted(ctx, event)
}
