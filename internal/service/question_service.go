package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/analyzer"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

const (
	DifficultyEasy    = "Easy"
	DifficultyMedium  = "Medium"
	DifficultyHard    = "Hard"
	DifficultyUnknown = "Unknown"

	IssueTooDifficult     = "Low average score - question may be too difficult"
	IssueInsufficientData = "Insufficient data for analysis"

	minAnalyticsSamples = 5
)

type QuestionService interface {
	CheckDuplicates(ctx context.Context, text string, excludeID *int64) *models.DuplicateCheckResult
	HandleCheckDuplicates(ctx context.Context, req models.QuestionSimilarityRequest) (*models.QuestionSimilarityResponse, error)
	QuestionAnalytics(ctx context.Context, questionID int64) *models.QuestionAnalytics
}

type questionService struct {
	questions  integration.QuestionClient
	exams      integration.ExamClient
	similarity analyzer.SimilarityAnalyzer
	threshold  float64
	logger     zerolog.Logger
}

func NewQuestionService(
	questions integration.QuestionClient,
	exams integration.ExamClient,
	similarity analyzer.SimilarityAnalyzer,
	duplicateThreshold float64,
	logger zerolog.Logger,
) QuestionService {
	return &questionService{
		questions:  questions,
		exams:      exams,
		similarity: similarity,
		threshold:  duplicateThreshold,
		logger:     logger,
	}
}

// CheckDuplicates keeps stored questions scoring strictly above the threshold,
// highest first. A failed fetch yields an empty result with Error set.
func (s *questionService) CheckDuplicates(ctx context.Context, text string, excludeID *int64) *models.DuplicateCheckResult {
	stored, err := s.questions.ListQuestions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch questions for duplicate check")
		return &models.DuplicateCheckResult{
			SimilarQuestions: []models.SimilarQuestion{},
			IsDuplicate:      false,
			Error:            fmt.Sprintf("Failed to fetch questions from Question Service: %v", err),
		}
	}

	if excludeID != nil {
		stored = lo.Reject(stored, func(q models.Question, _ int) bool { return q.ID == *excludeID })
	}

	candidates := lo.Map(stored, func(q models.Question, _ int) models.Candidate {
		return models.Candidate{ID: q.ID, Text: q.Content}
	})

	matches := s.similarity.FindSimilar(ctx, text, candidates, s.threshold)
	similar := make([]models.SimilarQuestion, 0, len(matches))
	for _, m := range matches {
		if m.SimilarityScore <= s.threshold {
			continue
		}
		similar = append(similar, models.SimilarQuestion{
			QuestionID:      m.ID,
			Content:         m.Text,
			SimilarityScore: m.SimilarityScore,
		})
	}

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("duplicates", len(similar)).
		Msg("Duplicate check completed")

	return &models.DuplicateCheckResult{
		SimilarQuestions: similar,
		IsDuplicate:      len(similar) > 0,
		DuplicateCount:   len(similar),
	}
}

func (s *questionService) HandleCheckDuplicates(ctx context.Context, req models.QuestionSimilarityRequest) (*models.QuestionSimilarityResponse, error) {
	if err := requireFields([2]string{"question_text", req.QuestionText}); err != nil {
		return nil, err
	}

	result := s.CheckDuplicates(ctx, req.QuestionText, req.ExcludeID)
	return &models.QuestionSimilarityResponse{
		SimilarQuestions: result.SimilarQuestions,
		SimilarityScores: lo.Map(result.SimilarQuestions, func(q models.SimilarQuestion, _ int) float64 {
			return q.SimilarityScore
		}),
		IsDuplicate: result.IsDuplicate,
		Error:       result.Error,
	}, nil
}

func (s *questionService) QuestionAnalytics(ctx context.Context, questionID int64) *models.QuestionAnalytics {
	logger := s.logger.With().Int64("question_id", questionID).Logger()

	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch question details")
		return &models.QuestionAnalytics{
			QuestionID: questionID,
			Error:      fmt.Sprintf("Failed to fetch question details: %v", err),
		}
	}

	out := &models.QuestionAnalytics{
		QuestionID:      questionID,
		QuestionContent: question.Content,
	}

	answers, err := s.exams.GetAnswerScores(ctx, questionID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to fetch answers, analytics unavailable")
		out.Analytics = &models.AnalyticsSummary{
			TotalAnswers:    0,
			AverageScore:    0,
			CommonIssues:    []string{},
			DifficultyLevel: DifficultyUnknown,
		}
		return out
	}

	scores := lo.FilterMap(answers, func(a models.AnswerScore, _ int) (float64, bool) {
		if a.Score == nil {
			return 0, false
		}
		return *a.Score, true
	})
	out.Analytics = Summarize(len(answers), scores)
	return out
}

// Summarize aggregates the recorded scores of a question's answers.
// totalAnswers counts every answer, scored or not.
func Summarize(totalAnswers int, scores []float64) *models.AnalyticsSummary {
	var average float64
	if len(scores) > 0 {
		average = lo.Sum(scores) / float64(len(scores))
	}

	issues := []string{}
	if average < 50 {
		issues = append(issues, IssueTooDifficult)
	}
	if totalAnswers < minAnalyticsSamples {
		issues = append(issues, IssueInsufficientData)
	}

	difficulty := DifficultyHard
	switch {
	case average >= 80:
		difficulty = DifficultyEasy
	case average >= 60:
		difficulty = DifficultyMedium
	}

	dist := &models.ScoreDistribution{}
	for _, score := range scores {
		switch {
		case score >= 80:
			dist.Excellent++
		case score >= 60:
			dist.Good++
		case score >= 40:
			dist.Fair++
		default:
			dist.Poor++
		}
	}

	return &models.AnalyticsSummary{
		TotalAnswers:      totalAnswers,
		AverageScore:      utils.Round(average, 2),
		CommonIssues:      issues,
		DifficultyLevel:   difficulty,
		ScoreDistribution: dist,
	}
}
