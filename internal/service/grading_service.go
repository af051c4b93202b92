package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/analyzer"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

const (
	DefaultEssayMaxScore      = 100
	DefaultEvaluationMaxScore = 10
)

type GradingService interface {
	GradeEssay(ctx context.Context, question, answer string, maxScore float64, criteria []string) *models.GradingResult
	HandleGradeEssay(ctx context.Context, req models.GradingRequest) (*models.GradingResult, error)
	EvaluateAnswer(ctx context.Context, req models.EvaluateAnswerRequest) (*models.AnswerEvaluation, error)
	ValidateAnswer(ctx context.Context, req models.ValidateAnswerRequest) (*models.ValidationResult, error)
	CheckPlagiarism(ctx context.Context, req models.PlagiarismRequest) (*models.PlagiarismResult, error)
}

type GradingConfig struct {
	AIEnabled    bool
	AIConfidence float64
}

type gradingService struct {
	ai     integration.AIStudioClient
	engine analyzer.GradingEngine
	logger zerolog.Logger
	config GradingConfig
}

func NewGradingService(
	ai integration.AIStudioClient,
	engine analyzer.GradingEngine,
	logger zerolog.Logger,
	config GradingConfig,
) GradingService {
	if ai == nil {
		ai = integration.NewAIStudioClient(nil, 0, logger)
	}
	return &gradingService{
		ai:     ai,
		engine: engine,
		logger: logger,
		config: config,
	}
}

// GradeEssay tries the AI grader first and falls back to the heuristic engine.
// The result is always well formed; a failed heuristic grade carries method "error".
func (s *gradingService) GradeEssay(ctx context.Context, question, answer string, maxScore float64, criteria []string) *models.GradingResult {
	startTime := time.Now()

	if s.ai != nil && s.config.AIEnabled {
		aiGrade, err := s.ai.GradeEssay(ctx, question, answer, maxScore, criteria)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("AI grading unavailable, falling back to traditional grading")
		case aiGrade.Score == 0 && strings.Contains(aiGrade.Feedback, "Error"):
			// a zero score with an error message is indistinguishable from a failed call
			s.logger.Warn().Str("feedback", aiGrade.Feedback).Msg("AI grading reported an error, falling back to traditional grading")
		default:
			result := s.enrich(ctx, answer, maxScore, aiGrade)
			s.logger.Info().
				Str("method", result.GradingMethod.String()).
				Float64("score", result.Score).
				Dur("duration", time.Since(startTime)).
				Msg("Essay graded")
			return result
		}
	}

	result, err := s.engine.Grade(ctx, question, answer, maxScore)
	if err != nil {
		s.logger.Error().Err(err).Msg("Traditional grading failed")
	}

	s.logger.Info().
		Str("method", result.GradingMethod.String()).
		Float64("score", result.Score).
		Dur("duration", time.Since(startTime)).
		Msg("Essay graded")
	return result
}

func (s *gradingService) enrich(ctx context.Context, answer string, maxScore float64, aiGrade *models.AIGrade) *models.GradingResult {
	plagiarism, err := s.ai.CheckPlagiarism(ctx, answer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Plagiarism check failed, continuing without it")
	}

	feedback := []string{}
	if aiGrade.Feedback != "" {
		feedback = append(feedback, aiGrade.Feedback)
	}

	score := utils.Clamp(aiGrade.Score, 0, maxScore)
	result := &models.GradingResult{
		Score:          score,
		MaxScore:       maxScore,
		Percentage:     utils.Percentage(score, maxScore),
		Feedback:       feedback,
		Strengths:      aiGrade.Strengths,
		Weaknesses:     aiGrade.Weaknesses,
		Suggestions:    aiGrade.Suggestions,
		Confidence:     s.config.AIConfidence,
		GradingMethod:  models.GradingMethodAIStudio,
		CriteriaScores: aiGrade.CriteriaScores,
	}
	if plagiarism != nil {
		result.PlagiarismCheck = plagiarism.Check()
	}
	return result
}

func (s *gradingService) HandleGradeEssay(ctx context.Context, req models.GradingRequest) (*models.GradingResult, error) {
	if err := requireFields([2]string{"question", req.Question}); err != nil {
		return nil, err
	}
	maxScore, err := resolveMaxScore(req.MaxScore, DefaultEssayMaxScore)
	if err != nil {
		return nil, err
	}
	return s.GradeEssay(ctx, req.Question, req.Answer, maxScore, req.Criteria), nil
}

// EvaluateAnswer compares a user answer with the reference answer. When the AI
// grader is unreachable the zero-score evaluation is returned without error.
func (s *gradingService) EvaluateAnswer(ctx context.Context, req models.EvaluateAnswerRequest) (*models.AnswerEvaluation, error) {
	if err := requireFields(
		[2]string{"question", req.Question},
		[2]string{"correct_answer", req.CorrectAnswer},
		[2]string{"user_answer", req.UserAnswer},
	); err != nil {
		return nil, err
	}
	maxScore, err := resolveMaxScore(req.MaxScore, DefaultEvaluationMaxScore)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.ai.EvaluateAnswer(ctx, req.Question, req.CorrectAnswer, req.UserAnswer, maxScore)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Answer evaluation degraded")
	}
	return evaluation, nil
}

func (s *gradingService) ValidateAnswer(ctx context.Context, req models.ValidateAnswerRequest) (*models.ValidationResult, error) {
	if err := requireFields(
		[2]string{"question", req.Question},
		[2]string{"answer", req.Answer},
	); err != nil {
		return nil, err
	}

	result, err := s.ai.ValidateAnswer(ctx, req.Question, req.Answer, req.ExpectedAnswer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Answer validation degraded")
	}
	return result, nil
}

func (s *gradingService) CheckPlagiarism(ctx context.Context, req models.PlagiarismRequest) (*models.PlagiarismResult, error) {
	if err := requireFields([2]string{"text", req.Text}); err != nil {
		return nil, err
	}

	result, err := s.ai.CheckPlagiarism(ctx, req.Text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Plagiarism check degraded")
	}
	return result, nil
}
