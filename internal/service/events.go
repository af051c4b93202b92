package service

import (
	"context"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

// EventPublisher emits grading events. Publishing is best-effort for callers.
type EventPublisher interface {
	PublishAnswerGraded(ctx context.Context, event models.AnswerGradedEvent) error
}

type nopPublisher struct{}

// NewNopPublisher is used when messaging is disabled.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishAnswerGraded(ctx context.Context, event models.AnswerGradedEvent) error {
	return nil
}
