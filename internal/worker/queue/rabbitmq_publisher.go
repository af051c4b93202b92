package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

const publishTimeout = 5 * time.Second

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

type rabbitMQPublisher struct {
	channel Channel
	logger  zerolog.Logger
}

func NewRabbitMQPublisher(channel Channel, logger zerolog.Logger) RabbitMQPublisher {
	return &rabbitMQPublisher{
		channel: channel,
		logger:  logger,
	}
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		publishCtx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// EventPublisher emits grading events to a fixed exchange and routing key.
type EventPublisher struct {
	publisher  RabbitMQPublisher
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

func NewEventPublisher(publisher RabbitMQPublisher, exchange, routingKey string, logger zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		publisher:  publisher,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}
}

func (p *EventPublisher) PublishAnswerGraded(ctx context.Context, event models.AnswerGradedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.publisher.Publish(ctx, p.exchange, p.routingKey, body); err != nil {
		return fmt.Errorf("failed to publish %s: %w", p.routingKey, err)
	}

	p.logger.Debug().
		Str("event_id", event.EventID).
		Int64("exam_id", event.ExamID).
		Int64("question_id", event.QuestionID).
		Msg("Answer graded event published")
	return nil
}
