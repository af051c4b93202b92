package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

type QuestionClient interface {
	ListQuestions(ctx context.Context) ([]models.Question, error)
	GetQuestion(ctx context.Context, questionID int64) (*models.Question, error)
}

type questionClient struct {
	serviceClient
}

func NewQuestionClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) QuestionClient {
	return &questionClient{
		serviceClient: newServiceClient("question service", baseURL, timeout, retryCount, retryDelay, logger),
	}
}

func (c *questionClient) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "GET", "/questions", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions, err := decodeQuestionList(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	c.logger.Debug().Int("count", len(questions)).Msg("Fetched questions")
	return questions, nil
}

func (c *questionClient) GetQuestion(ctx context.Context, questionID int64) (*models.Question, error) {
	var question models.Question
	if err := c.do(ctx, "GET", fmt.Sprintf("/questions/%d", questionID), nil, &question); err != nil {
		return nil, fmt.Errorf("failed to get question %d: %w", questionID, err)
	}
	if question.ID == 0 {
		question.ID = questionID
	}
	return &question, nil
}

// decodeQuestionList accepts a bare array or an object wrapping it under
// "questions", "content" or "data".
func decodeQuestionList(raw json.RawMessage) ([]models.Question, error) {
	var list []models.Question
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: question list is neither an array nor an object", ErrMalformedUpstreamResponse)
	}
	for _, key := range []string{"questions", "content", "data"} {
		if inner, ok := wrapped[key]; ok {
			if err := json.Unmarshal(inner, &list); err != nil {
				return nil, fmt.Errorf("%w: %q is not a question array", ErrMalformedUpstreamResponse, key)
			}
			return list, nil
		}
	}
	return nil, fmt.Errorf("%w: no question array in response", ErrMalformedUpstreamResponse)
}
