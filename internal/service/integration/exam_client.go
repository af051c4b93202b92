package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

type ExamClient interface {
	GetExam(ctx context.Context, examID int64) (*models.Exam, error)
	GetAnswer(ctx context.Context, examID, questionID int64) (string, error)
	SubmitResult(ctx context.Context, result models.ExamResult) error
	GetAnswerScores(ctx context.Context, questionID int64) ([]models.AnswerScore, error)
}

type examClient struct {
	serviceClient
}

func NewExamClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) ExamClient {
	return &examClient{
		serviceClient: newServiceClient("exam service", baseURL, timeout, retryCount, retryDelay, logger),
	}
}

func (c *examClient) GetExam(ctx context.Context, examID int64) (*models.Exam, error) {
	var exam models.Exam
	if err := c.do(ctx, "GET", fmt.Sprintf("/exams/%d", examID), nil, &exam); err != nil {
		return nil, fmt.Errorf("failed to get exam %d: %w", examID, err)
	}
	if exam.ID == 0 {
		exam.ID = examID
	}
	return &exam, nil
}

func (c *examClient) GetAnswer(ctx context.Context, examID, questionID int64) (string, error) {
	var answer models.StoredAnswer
	path := fmt.Sprintf("/exams/%d/questions/%d/answer", examID, questionID)
	if err := c.do(ctx, "GET", path, nil, &answer); err != nil {
		return "", fmt.Errorf("failed to get answer for exam %d question %d: %w", examID, questionID, err)
	}
	return answer.Answer, nil
}

func (c *examClient) SubmitResult(ctx context.Context, result models.ExamResult) error {
	path := fmt.Sprintf("/exams/%d/results", result.ExamID)
	if err := c.do(ctx, "POST", path, result, nil); err != nil {
		return fmt.Errorf("failed to save result for exam %d question %d: %w", result.ExamID, result.QuestionID, err)
	}

	c.logger.Info().
		Int64("exam_id", result.ExamID).
		Int64("question_id", result.QuestionID).
		Float64("score", result.Score).
		Msg("Exam result saved")
	return nil
}

func (c *examClient) GetAnswerScores(ctx context.Context, questionID int64) ([]models.AnswerScore, error) {
	var answers []models.AnswerScore
	if err := c.do(ctx, "GET", fmt.Sprintf("/questions/%d/answers", questionID), nil, &answers); err != nil {
		return nil, fmt.Errorf("failed to get answers for question %d: %w", questionID, err)
	}
	return answers, nil
}
