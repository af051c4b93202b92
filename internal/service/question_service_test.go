package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
)

func TestCheckDuplicates(t *testing.T) {
	questions := &fakeQuestions{list: []models.Question{
		{ID: 1, Content: "alpha"},
		{ID: 2, Content: "beta"},
		{ID: 3, Content: "gamma"},
		{ID: 4, Content: "delta"},
	}}
	sim := &scriptedSimilarity{scores: map[string]float64{
		"alpha": 0.75,
		"beta":  0.7, // equal to the threshold, not a duplicate
		"gamma": 0.95,
		"delta": 0.2,
	}}
	s := NewQuestionService(questions, &fakeExams{}, sim, 0.7, zerolog.Nop())

	res := s.CheckDuplicates(context.Background(), "new question", nil)
	if !res.IsDuplicate || res.DuplicateCount != 2 || res.Error != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.SimilarQuestions[0].QuestionID != 3 || res.SimilarQuestions[1].QuestionID != 1 {
		t.Errorf("not sorted by score: %+v", res.SimilarQuestions)
	}

	res = s.CheckDuplicates(context.Background(), "new question", ptr(int64(3)))
	if res.DuplicateCount != 1 || res.SimilarQuestions[0].QuestionID != 1 {
		t.Errorf("exclusion ignored: %+v", res.SimilarQuestions)
	}
}

func TestCheckDuplicatesFetchFailure(t *testing.T) {
	questions := &fakeQuestions{listErr: integration.ErrUpstreamUnavailable}
	s := NewQuestionService(questions, &fakeExams{}, &scriptedSimilarity{}, 0.7, zerolog.Nop())

	res := s.CheckDuplicates(context.Background(), "anything", nil)
	if res.IsDuplicate || len(res.SimilarQuestions) != 0 || res.Error == "" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestHandleCheckDuplicatesScores(t *testing.T) {
	questions := &fakeQuestions{list: []models.Question{{ID: 1, Content: "a"}, {ID: 2, Content: "b"}}}
	sim := &scriptedSimilarity{scores: map[string]float64{"a": 0.8, "b": 0.9}}
	s := NewQuestionService(questions, &fakeExams{}, sim, 0.7, zerolog.Nop())

	res, err := s.HandleCheckDuplicates(context.Background(), models.QuestionSimilarityRequest{QuestionText: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.SimilarityScores) != 2 || res.SimilarityScores[0] != 0.9 || res.SimilarityScores[1] != 0.8 {
		t.Errorf("scores = %v", res.SimilarityScores)
	}

	if _, err := s.HandleCheckDuplicates(context.Background(), models.QuestionSimilarityRequest{}); err == nil {
		t.Error("expected validation error for blank question_text")
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		scores     []float64
		average    float64
		difficulty string
		dist       models.ScoreDistribution
		issues     int
	}{
		{
			name:       "mixed scores",
			total:      5,
			scores:     []float64{90, 70, 50, 30, 85},
			average:    65,
			difficulty: DifficultyMedium,
			dist:       models.ScoreDistribution{Excellent: 2, Good: 1, Fair: 1, Poor: 1},
			issues:     0,
		},
		{
			name:       "few low scores",
			total:      3,
			scores:     []float64{10, 20},
			average:    15,
			difficulty: DifficultyHard,
			dist:       models.ScoreDistribution{Poor: 2},
			issues:     2,
		},
		{
			name:       "easy",
			total:      6,
			scores:     []float64{80, 80, 100, 90, 85, 95},
			average:    88.33,
			difficulty: DifficultyEasy,
			dist:       models.ScoreDistribution{Excellent: 6},
			issues:     0,
		},
		{
			name:       "no answers",
			total:      0,
			scores:     nil,
			average:    0,
			difficulty: DifficultyHard,
			issues:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.total, tt.scores)
			if got.AverageScore != tt.average {
				t.Errorf("average = %v, want %v", got.AverageScore, tt.average)
			}
			if got.DifficultyLevel != tt.difficulty {
				t.Errorf("difficulty = %s, want %s", got.DifficultyLevel, tt.difficulty)
			}
			if *got.ScoreDistribution != tt.dist {
				t.Errorf("distribution = %+v, want %+v", *got.ScoreDistribution, tt.dist)
			}
			if len(got.CommonIssues) != tt.issues {
				t.Errorf("issues = %v", got.CommonIssues)
			}
		})
	}
}

func TestQuestionAnalytics(t *testing.T) {
	questions := &fakeQuestions{byID: map[int64]models.Question{9: {ID: 9, Content: "Explain GC"}}}
	exams := &fakeExams{scores: []models.AnswerScore{
		{Score: ptr(90.0)}, {Score: nil}, {Score: ptr(70.0)},
	}}
	s := NewQuestionService(questions, exams, &scriptedSimilarity{}, 0.7, zerolog.Nop())

	res := s.QuestionAnalytics(context.Background(), 9)
	if res.Error != "" || res.QuestionContent != "Explain GC" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Analytics.TotalAnswers != 3 || res.Analytics.AverageScore != 80 {
		t.Errorf("analytics = %+v", res.Analytics)
	}

	missing := s.QuestionAnalytics(context.Background(), 1)
	if missing.Error == "" || missing.Analytics != nil {
		t.Errorf("expected error for unknown question, got %+v", missing)
	}

	exams.scoresErr = integration.ErrUpstreamUnavailable
	degraded := s.QuestionAnalytics(context.Background(), 9)
	if degraded.Analytics.DifficultyLevel != DifficultyUnknown || degraded.Analytics.TotalAnswers != 0 {
		t.Errorf("expected unknown difficulty, got %+v", degraded.Analytics)
	}
}
