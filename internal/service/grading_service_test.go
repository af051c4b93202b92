package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/nlp"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/analyzer"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
)

func newEngine() analyzer.GradingEngine {
	sim := analyzer.NewSimilarityAnalyzer(analyzer.NewHashingEmbedder(0), zerolog.Nop())
	return analyzer.NewGradingEngine(sim, nlp.NewAnalyzer(0), analyzer.DefaultWeights(), zerolog.Nop())
}

func newGradingService(ai integration.AIStudioClient, enabled bool) GradingService {
	return NewGradingService(ai, newEngine(), zerolog.Nop(), GradingConfig{AIEnabled: enabled, AIConfidence: 0.9})
}

const (
	sampleQuestion = "Why do services use message queues?"
	sampleAnswer   = "Services use message queues because they decouple producers from consumers and absorb load spikes."
)

func TestGradeEssayFallsBackWhenAIUnreachable(t *testing.T) {
	ai := &fakeAI{gradeErr: integration.ErrUpstreamUnavailable}
	s := newGradingService(ai, true)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 100, nil)
	if res.GradingMethod != models.GradingMethodTraditionalNLP {
		t.Fatalf("method = %s, want traditional_nlp", res.GradingMethod)
	}
	if res.Score < 0 || res.Score > 100 || len(res.Feedback) != 4 || res.SubScores == nil {
		t.Errorf("malformed fallback result: %+v", res)
	}
	if ai.gradeCalls != 1 {
		t.Errorf("expected one AI call, got %d", ai.gradeCalls)
	}
}

func TestGradeEssayUsesRealAIClientFallback(t *testing.T) {
	// a real client with no generator behaves like an unreachable model
	s := newGradingService(integration.NewAIStudioClient(nil, 0.6, zerolog.Nop()), true)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 10, nil)
	if res.GradingMethod != models.GradingMethodTraditionalNLP {
		t.Errorf("method = %s, want traditional_nlp", res.GradingMethod)
	}
}

func TestGradeEssayAISuccess(t *testing.T) {
	ai := &fakeAI{
		grade: &models.AIGrade{
			Score:          72,
			MaxScore:       100,
			Feedback:       "Good coverage",
			CriteriaScores: map[string]float64{"content": 20},
			Strengths:      []string{"clear"},
			Weaknesses:     []string{},
			Suggestions:    []string{"add examples"},
			Confidence:     0.4,
		},
		plagiarism: &models.PlagiarismResult{IsOriginal: true, Confidence: 0.7, SimilarityScore: 0.1, Concerns: []string{}},
	}
	s := newGradingService(ai, true)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 100, nil)
	if res.GradingMethod != models.GradingMethodAIStudio {
		t.Fatalf("method = %s, want ai_studio", res.GradingMethod)
	}
	if res.Score != 72 || res.Percentage != 72 {
		t.Errorf("score = %v, percentage = %v", res.Score, res.Percentage)
	}
	if res.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", res.Confidence)
	}
	if res.PlagiarismCheck == nil || !res.PlagiarismCheck.IsOriginal {
		t.Errorf("plagiarism check missing: %+v", res.PlagiarismCheck)
	}
	if len(res.Feedback) != 1 || res.Feedback[0] != "Good coverage" {
		t.Errorf("feedback = %v", res.Feedback)
	}
}

func TestGradeEssayPlagiarismFailureDoesNotAbort(t *testing.T) {
	ai := &fakeAI{
		grade:      &models.AIGrade{Score: 5, MaxScore: 10, Feedback: "ok"},
		plagiarism: &models.PlagiarismResult{IsOriginal: true, Feedback: "Error checking plagiarism: timeout"},
		plagErr:    integration.ErrUpstreamUnavailable,
	}
	s := newGradingService(ai, true)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 10, nil)
	if res.GradingMethod != models.GradingMethodAIStudio || res.Score != 5 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.PlagiarismCheck == nil || res.PlagiarismCheck.Confidence != 0 {
		t.Errorf("expected degraded plagiarism check, got %+v", res.PlagiarismCheck)
	}
}

func TestGradeEssayZeroScoreErrorFeedbackFallsBack(t *testing.T) {
	ai := &fakeAI{grade: &models.AIGrade{Score: 0, MaxScore: 100, Feedback: "Error grading essay: quota exceeded"}}
	s := newGradingService(ai, true)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 100, nil)
	if res.GradingMethod != models.GradingMethodTraditionalNLP {
		t.Errorf("method = %s, want traditional_nlp", res.GradingMethod)
	}
}

func TestGradeEssayLegitimateZeroIsKept(t *testing.T) {
	ai := &fakeAI{grade: &models.AIGrade{Score: 0, MaxScore: 100, Feedback: "The answer is off-topic."}}
	s := newGradingService(ai, true)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 100, nil)
	if res.GradingMethod != models.GradingMethodAIStudio || res.Score != 0 {
		t.Errorf("expected ai_studio zero score, got %s %v", res.GradingMethod, res.Score)
	}
}

func TestGradeEssayAIDisabled(t *testing.T) {
	ai := &fakeAI{grade: &models.AIGrade{Score: 99, MaxScore: 100}}
	s := newGradingService(ai, false)

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 100, nil)
	if res.GradingMethod != models.GradingMethodTraditionalNLP {
		t.Errorf("method = %s, want traditional_nlp", res.GradingMethod)
	}
	if ai.gradeCalls != 0 {
		t.Errorf("AI called %d times while disabled", ai.gradeCalls)
	}
}

func TestGradeEssayTraditionalFailure(t *testing.T) {
	s := NewGradingService(&fakeAI{gradeErr: integration.ErrUpstreamUnavailable}, failingEngine{}, zerolog.Nop(),
		GradingConfig{AIEnabled: true, AIConfidence: 0.9})

	res := s.GradeEssay(context.Background(), sampleQuestion, sampleAnswer, 100, nil)
	if res.GradingMethod != models.GradingMethodError || res.Score != 0 {
		t.Errorf("expected terminal error result, got %+v", res)
	}
}

func TestHandleGradeEssayValidation(t *testing.T) {
	s := newGradingService(&fakeAI{gradeErr: integration.ErrUpstreamUnavailable}, true)
	zero := 0.0

	_, err := s.HandleGradeEssay(context.Background(), models.GradingRequest{Question: " ", Answer: "x"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields[0] != "question" {
		t.Errorf("expected question validation error, got %v", err)
	}

	_, err = s.HandleGradeEssay(context.Background(), models.GradingRequest{Question: "q", Answer: "a", MaxScore: &zero})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for max_score=0, got %v", err)
	}

	res, err := s.HandleGradeEssay(context.Background(), models.GradingRequest{Question: "q", Answer: ""})
	if err != nil {
		t.Fatal(err)
	}
	if res.MaxScore != DefaultEssayMaxScore || res.Score != 0 {
		t.Errorf("blank answer result = %+v", res)
	}
}

func TestEvaluateAnswerValidation(t *testing.T) {
	s := newGradingService(&fakeAI{}, true)

	_, err := s.EvaluateAnswer(context.Background(), models.EvaluateAnswerRequest{Question: "q"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 || verr.Fields[0] != "correct_answer" || verr.Fields[1] != "user_answer" {
		t.Errorf("fields = %v", verr.Fields)
	}
}

func TestEvaluateAnswerDegradedIsNotAnError(t *testing.T) {
	ai := &fakeAI{
		evaluation: &models.AnswerEvaluation{MaxScore: 10, Feedback: "Unable to evaluate answer: timeout"},
		evalErr:    integration.ErrUpstreamUnavailable,
	}
	s := newGradingService(ai, true)

	res, err := s.EvaluateAnswer(context.Background(), models.EvaluateAnswerRequest{
		Question: "q", CorrectAnswer: "c", UserAnswer: "u",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 || res.MaxScore != 10 {
		t.Errorf("unexpected evaluation %+v", res)
	}
}

func TestNewGradingServiceWithoutAIClient(t *testing.T) {
	s := NewGradingService(nil, newEngine(), zerolog.Nop(), GradingConfig{AIEnabled: true, AIConfidence: 0.9})

	res, err := s.CheckPlagiarism(context.Background(), models.PlagiarismRequest{Text: "some text"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsOriginal || res.Confidence != 0 {
		t.Errorf("expected degraded plagiarism result, got %+v", res)
	}
}
