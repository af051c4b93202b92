package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
)

type ExamService interface {
	GradeExamAnswer(ctx context.Context, examID, questionID int64, answer string, maxScore float64) *models.ExamGradeRecord
	HandleGradeExamAnswer(ctx context.Context, examID, questionID int64, req models.ExamGradingRequest) (*models.ExamGradeRecord, error)
	BatchGradeExam(ctx context.Context, examID int64) *models.BatchGradeResult
}

type ExamConfig struct {
	// BatchConcurrency bounds how many open-ended answers of one exam are graded at once.
	BatchConcurrency int
}

type examService struct {
	questions integration.QuestionClient
	exams     integration.ExamClient
	grading   GradingService
	publisher EventPublisher
	logger    zerolog.Logger
	config    ExamConfig
}

func NewExamService(
	questions integration.QuestionClient,
	exams integration.ExamClient,
	grading GradingService,
	publisher EventPublisher,
	logger zerolog.Logger,
	config ExamConfig,
) ExamService {
	if publisher == nil {
		publisher = NewNopPublisher()
	}
	if config.BatchConcurrency <= 0 {
		config.BatchConcurrency = 1
	}
	return &examService{
		questions: questions,
		exams:     exams,
		grading:   grading,
		publisher: publisher,
		logger:    logger,
		config:    config,
	}
}

func (s *examService) HandleGradeExamAnswer(ctx context.Context, examID, questionID int64, req models.ExamGradingRequest) (*models.ExamGradeRecord, error) {
	maxScore, err := resolveMaxScore(req.MaxScore, DefaultEssayMaxScore)
	if err != nil {
		return nil, err
	}
	return s.GradeExamAnswer(ctx, examID, questionID, req.AnswerText, maxScore), nil
}

// GradeExamAnswer grades one stored exam answer. A failed question lookup
// short-circuits to a zero, non auto-graded record with Error set.
func (s *examService) GradeExamAnswer(ctx context.Context, examID, questionID int64, answer string, maxScore float64) *models.ExamGradeRecord {
	logger := s.logger.With().Int64("exam_id", examID).Int64("question_id", questionID).Logger()

	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch question details")
		return &models.ExamGradeRecord{
			ExamID:     examID,
			QuestionID: questionID,
			Score:      0,
			MaxScore:   maxScore,
			AutoGraded: false,
			Error:      fmt.Sprintf("Failed to fetch question details: %v", err),
		}
	}

	grade := s.grading.GradeEssay(ctx, question.Content, answer, maxScore, nil)

	record := &models.ExamGradeRecord{
		ExamID:        examID,
		QuestionID:    questionID,
		Score:         grade.Score,
		MaxScore:      maxScore,
		Percentage:    grade.Percentage,
		Feedback:      strings.Join(grade.Feedback, " "),
		AutoGraded:    grade.GradingMethod != models.GradingMethodError,
		Confidence:    grade.Confidence,
		GradingMethod: grade.GradingMethod,
	}
	if !record.AutoGraded {
		record.Error = "Automatic grading failed"
		return record
	}

	s.persist(ctx, logger, models.ExamResult{
		ExamID:     examID,
		QuestionID: questionID,
		UserAnswer: answer,
		Score:      grade.Score,
		MaxScore:   maxScore,
		AutoGraded: true,
		Feedback:   grade.Feedback,
		GradingDetails: models.GradingDetails{
			Strengths:     grade.Strengths,
			Weaknesses:    grade.Weaknesses,
			Suggestions:   grade.Suggestions,
			Confidence:    grade.Confidence,
			GradingMethod: grade.GradingMethod,
		},
	})

	s.publish(ctx, logger, models.AnswerGradedEvent{
		EventID:       uuid.New().String(),
		ExamID:        examID,
		QuestionID:    questionID,
		Score:         grade.Score,
		MaxScore:      maxScore,
		Percentage:    grade.Percentage,
		Confidence:    grade.Confidence,
		GradingMethod: grade.GradingMethod,
		GradedAt:      time.Now().UTC(),
	})

	return record
}

func (s *examService) persist(ctx context.Context, logger zerolog.Logger, result models.ExamResult) {
	if err := s.exams.SubmitResult(ctx, result); err != nil {
		logger.Warn().Err(err).Msg("Failed to save exam result, returning grade anyway")
	}
}

func (s *examService) publish(ctx context.Context, logger zerolog.Logger, event models.AnswerGradedEvent) {
	if err := s.publisher.PublishAnswerGraded(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event_id", event.EventID).Msg("Failed to publish answer graded event")
	}
}

// BatchGradeExam grades every answered open-ended question of an exam.
// Blank or unavailable answers are skipped; a failure on one question does
// not stop the others.
func (s *examService) BatchGradeExam(ctx context.Context, examID int64) *models.BatchGradeResult {
	startTime := time.Now()
	logger := s.logger.With().Int64("exam_id", examID).Logger()

	exam, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch exam details")
		return &models.BatchGradeResult{
			ExamID:          examID,
			GradedQuestions: []models.GradedQuestion{},
			TotalQuestions:  0,
			GradedCount:     0,
			Success:         false,
			Error:           fmt.Sprintf("Failed to fetch exam details: %v", err),
		}
	}

	openEnded := lo.Filter(exam.Questions, func(q models.Question, _ int) bool {
		return q.Type == models.QuestionTypeOpenEnded
	})

	logger.Info().
		Int("total_questions", len(exam.Questions)).
		Int("open_ended", len(openEnded)).
		Msg("Starting batch grading")

	// one slot per open-ended question keeps output in exam order
	slots := make([]*models.GradedQuestion, len(openEnded))

	chunk := s.config.BatchConcurrency
	for i := 0; i < len(openEnded); i += chunk {
		end := i + chunk
		if end > len(openEnded) {
			end = len(openEnded)
		}

		var wg sync.WaitGroup
		for j := i; j < end; j++ {
			wg.Add(1)
			go func(idx int, q models.Question) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						logger.Error().Interface("panic", r).Int64("question_id", q.ID).Msg("Recovered panic while grading question")
						slots[idx] = &models.GradedQuestion{QuestionID: q.ID, Error: fmt.Sprintf("panic: %v", r)}
					}
				}()
				slots[idx] = s.gradeStoredAnswer(ctx, logger, examID, q)
			}(j, openEnded[j])
		}
		wg.Wait()
	}

	graded := make([]models.GradedQuestion, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			graded = append(graded, *slot)
		}
	}
	gradedCount := lo.CountBy(graded, func(g models.GradedQuestion) bool { return g.Error == "" })

	logger.Info().
		Int("graded_count", gradedCount).
		Int("attempted", len(graded)).
		Dur("duration", time.Since(startTime)).
		Msg("Batch grading completed")

	return &models.BatchGradeResult{
		ExamID:          examID,
		GradedQuestions: graded,
		TotalQuestions:  len(exam.Questions),
		GradedCount:     gradedCount,
		Success:         true,
	}
}

// gradeStoredAnswer returns nil when the question has nothing to grade.
func (s *examService) gradeStoredAnswer(ctx context.Context, logger zerolog.Logger, examID int64, q models.Question) *models.GradedQuestion {
	answer, err := s.exams.GetAnswer(ctx, examID, q.ID)
	if err != nil {
		logger.Warn().Err(err).Int64("question_id", q.ID).Msg("Answer unavailable, skipping question")
		return nil
	}
	if strings.TrimSpace(answer) == "" {
		logger.Debug().Int64("question_id", q.ID).Msg("Blank answer, skipping question")
		return nil
	}

	maxScore := float64(DefaultEssayMaxScore)
	if q.MaxScore != nil && *q.MaxScore > 0 {
		maxScore = *q.MaxScore
	}

	record := s.GradeExamAnswer(ctx, examID, q.ID, answer, maxScore)
	return &models.GradedQuestion{
		QuestionID: q.ID,
		Score:      record.Score,
		MaxScore:   record.MaxScore,
		AutoGraded: record.AutoGraded,
		Error:      record.Error,
	}
}
