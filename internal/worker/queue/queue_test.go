package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func TestEventPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewEventPublisher(NewRabbitMQPublisher(ch, zerolog.Nop()), "grading_exchange", "answer.graded", zerolog.Nop())

	event := models.AnswerGradedEvent{EventID: "e-1", ExamID: 3, QuestionID: 4, Score: 7.5, MaxScore: 10}
	if err := p.PublishAnswerGraded(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if ch.exchange != "grading_exchange" || ch.key != "answer.graded" {
		t.Errorf("published to %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp.Persistent || ch.msg.ContentType != "application/json" {
		t.Errorf("unexpected publishing %+v", ch.msg)
	}

	var got models.AnswerGradedEvent
	if err := json.Unmarshal(ch.msg.Body, &got); err != nil {
		t.Fatal(err)
	}
	if got.EventID != "e-1" || got.Score != 7.5 {
		t.Errorf("unexpected body %+v", got)
	}

	ch.err = amqp.ErrClosed
	if err := p.PublishAnswerGraded(context.Background(), event); !errors.Is(err, amqp.ErrClosed) {
		t.Errorf("expected wrapped ErrClosed, got %v", err)
	}
}

type recordingGrader struct {
	examID int64
	result *models.BatchGradeResult
}

func (g *recordingGrader) BatchGradeExam(ctx context.Context, examID int64) *models.BatchGradeResult {
	g.examID = examID
	return g.result
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		result  *models.BatchGradeResult
		invalid bool
		wantErr bool
	}{
		{"graded", `{"event_id":"x","exam_id":12}`, &models.BatchGradeResult{ExamID: 12, Success: true}, false, false},
		{"exam fetch failed", `{"exam_id":12}`, &models.BatchGradeResult{ExamID: 12, Error: "down"}, false, true},
		{"bad json", `[`, nil, true, true},
		{"missing exam id", `{"event_id":"x"}`, nil, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &recordingGrader{result: tt.result}
			h := NewMessageHandler(g, zerolog.Nop())

			_, err := h.ProcessMessage(context.Background(), RabbitMQMessage{Body: []byte(tt.body)})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrInvalidMessage) != tt.invalid {
				t.Errorf("invalid = %v, want %v", errors.Is(err, ErrInvalidMessage), tt.invalid)
			}
			if !tt.invalid && g.examID != 12 {
				t.Errorf("grader called with %d", g.examID)
			}
		})
	}
}

var (
	_ Channel         = (*amqp.Channel)(nil)
	_ ConsumerChannel = (*amqp.Channel)(nil)
)

type fakeConsumerChannel struct {
	deliveries chan amqp.Delivery
	prefetch   int
	consumer   string
	once       sync.Once
}

func (c *fakeConsumerChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	c.prefetch = prefetchCount
	return nil
}

func (c *fakeConsumerChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	if autoAck {
		return nil, errors.New("deliveries must be acked manually")
	}
	c.consumer = consumer
	return c.deliveries, nil
}

func (c *fakeConsumerChannel) Cancel(consumer string, noWait bool) error {
	c.once.Do(func() { close(c.deliveries) })
	return nil
}

type tagAcknowledger struct {
	mu    sync.Mutex
	acked []uint64
}

func (a *tagAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *tagAcknowledger) Nack(tag uint64, multiple, requeue bool) error { return nil }
func (a *tagAcknowledger) Reject(tag uint64, requeue bool) error         { return nil }

func TestConsumerDeliversUntilClosed(t *testing.T) {
	ch := &fakeConsumerChannel{deliveries: make(chan amqp.Delivery, 1)}
	ack := &tagAcknowledger{}
	c := NewRabbitMQConsumer(ch, "exam_submitted_queue", "nlp-grading-consumer", 0, zerolog.Nop())

	msgs, err := c.Consume(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ch.prefetch != 1 || ch.consumer != "nlp-grading-consumer" {
		t.Errorf("prefetch = %d, consumer = %q", ch.prefetch, ch.consumer)
	}

	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 42, Body: []byte(`{"exam_id":1}`)}
	msg := <-msgs
	if string(msg.Body) != `{"exam_id":1}` {
		t.Errorf("body = %s", msg.Body)
	}
	if err := msg.Ack(false); err != nil {
		t.Fatal(err)
	}
	if len(ack.acked) != 1 || ack.acked[0] != 42 {
		t.Errorf("acked = %v", ack.acked)
	}

	c.Close()
	select {
	case _, ok := <-msgs:
		if ok {
			t.Error("expected closed channel after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after Close")
	}
}
