package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
)

type fakeAI struct {
	mu         sync.Mutex
	grade      *models.AIGrade
	gradeErr   error
	plagiarism *models.PlagiarismResult
	plagErr    error
	evaluation *models.AnswerEvaluation
	evalErr    error
	gradeCalls int
}

func (f *fakeAI) GradeEssay(ctx context.Context, question, answer string, maxScore float64, criteria []string) (*models.AIGrade, error) {
	f.mu.Lock()
	f.gradeCalls++
	f.mu.Unlock()
	if f.gradeErr != nil {
		return &models.AIGrade{MaxScore: maxScore, Feedback: "Error grading essay: " + f.gradeErr.Error()}, f.gradeErr
	}
	g := *f.grade
	return &g, nil
}

func (f *fakeAI) ValidateAnswer(ctx context.Context, question, answer string, expected *string) (*models.ValidationResult, error) {
	return &models.ValidationResult{IsCorrect: true, Confidence: 1, Score: 10, MaxScore: 10}, nil
}

func (f *fakeAI) CheckPlagiarism(ctx context.Context, text string) (*models.PlagiarismResult, error) {
	if f.plagiarism == nil {
		return &models.PlagiarismResult{IsOriginal: true, Concerns: []string{}}, f.plagErr
	}
	return f.plagiarism, f.plagErr
}

func (f *fakeAI) EvaluateAnswer(ctx context.Context, question, correctAnswer, userAnswer string, maxScore float64) (*models.AnswerEvaluation, error) {
	return f.evaluation, f.evalErr
}

type fakeQuestions struct {
	list    []models.Question
	listErr error
	byID    map[int64]models.Question
	getErr  error
}

func (f *fakeQuestions) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return f.list, f.listErr
}

func (f *fakeQuestions) GetQuestion(ctx context.Context, questionID int64) (*models.Question, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	q, ok := f.byID[questionID]
	if !ok {
		return nil, integration.ErrNotFound
	}
	return &q, nil
}

type fakeExams struct {
	mu         sync.Mutex
	exam       *models.Exam
	examErr    error
	answers    map[int64]string
	submitErr  error
	submitted  []models.ExamResult
	scores     []models.AnswerScore
	scoresErr  error
	answerErrs map[int64]error
}

func (f *fakeExams) GetExam(ctx context.Context, examID int64) (*models.Exam, error) {
	if f.examErr != nil {
		return nil, f.examErr
	}
	return f.exam, nil
}

func (f *fakeExams) GetAnswer(ctx context.Context, examID, questionID int64) (string, error) {
	if err, ok := f.answerErrs[questionID]; ok {
		return "", err
	}
	answer, ok := f.answers[questionID]
	if !ok {
		return "", integration.ErrNotFound
	}
	return answer, nil
}

func (f *fakeExams) SubmitResult(ctx context.Context, result models.ExamResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, result)
	return f.submitErr
}

func (f *fakeExams) GetAnswerScores(ctx context.Context, questionID int64) ([]models.AnswerScore, error) {
	return f.scores, f.scoresErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.AnswerGradedEvent
	err    error
}

func (p *recordingPublisher) PublishAnswerGraded(ctx context.Context, event models.AnswerGradedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

// scriptedSimilarity returns fixed scores per candidate text.
type scriptedSimilarity struct {
	scores map[string]float64
}

func (s *scriptedSimilarity) Compare(ctx context.Context, text1, text2 string) models.SimilarityResult {
	return models.SimilarityResult{Score: s.scores[text2]}
}

func (s *scriptedSimilarity) Similarity(ctx context.Context, text1, text2 string) float64 {
	return s.scores[text2]
}

func (s *scriptedSimilarity) FindSimilar(ctx context.Context, query string, candidates []models.Candidate, threshold float64) []models.SimilarMatch {
	var out []models.SimilarMatch
	for i, c := range candidates {
		if score := s.scores[c.Text]; score >= threshold {
			out = append(out, models.SimilarMatch{ID: c.ID, Index: i, Text: c.Text, SimilarityScore: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SimilarityScore > out[j].SimilarityScore })
	return out
}

func (s *scriptedSimilarity) DetectDuplicates(ctx context.Context, text string, texts []string, threshold float64) []models.SimilarMatch {
	return nil
}

type failingEngine struct{}

func (failingEngine) Grade(ctx context.Context, question, answer string, maxScore float64) (*models.GradingResult, error) {
	err := errors.Join(ErrInternalComputation, errors.New("boom"))
	return models.ErrorGradingResult(maxScore, err), err
}
