package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

const (
	parseFailureConfidence = 0.5
	parseFailureWeakness   = "Unable to parse evaluation"

	defaultValidationMaxScore = 10
	defaultCorrectThreshold   = 0.6
)

// AIStudioClient grades and checks answers with a generative model. Every
// method returns a usable result. When the model could not be reached the
// result is the zero-score fallback and err wraps ErrUpstreamUnavailable.
type AIStudioClient interface {
	GradeEssay(ctx context.Context, question, answer string, maxScore float64, criteria []string) (*models.AIGrade, error)
	ValidateAnswer(ctx context.Context, question, answer string, expected *string) (*models.ValidationResult, error)
	CheckPlagiarism(ctx context.Context, text string) (*models.PlagiarismResult, error)
	EvaluateAnswer(ctx context.Context, question, correctAnswer, userAnswer string, maxScore float64) (*models.AnswerEvaluation, error)
}

type aiStudioClient struct {
	generator        TextGenerator
	correctThreshold float64
	logger           zerolog.Logger
}

func NewAIStudioClient(generator TextGenerator, correctThreshold float64, logger zerolog.Logger) AIStudioClient {
	if correctThreshold <= 0 || correctThreshold > 1 {
		correctThreshold = defaultCorrectThreshold
	}
	return &aiStudioClient{
		generator:        generator,
		correctThreshold: correctThreshold,
		logger:           logger,
	}
}

func (c *aiStudioClient) GradeEssay(ctx context.Context, question, answer string, maxScore float64, criteria []string) (*models.AIGrade, error) {
	raw, err := c.generate(ctx, "grade_essay", buildGradingPrompt(question, answer, maxScore, criteria))
	if err != nil {
		return &models.AIGrade{
			Score:          0,
			MaxScore:       maxScore,
			Feedback:       fmt.Sprintf("Error grading essay: %v", err),
			CriteriaScores: map[string]float64{},
			Strengths:      []string{},
			Weaknesses:     []string{},
			Suggestions:    []string{},
			Confidence:     0,
			Degraded:       true,
		}, err
	}

	fields, ok := c.parse("grade_essay", raw)
	if !ok {
		return &models.AIGrade{
			Score:          0,
			MaxScore:       maxScore,
			Feedback:       raw,
			CriteriaScores: map[string]float64{},
			Strengths:      []string{},
			Weaknesses:     []string{parseFailureWeakness},
			Suggestions:    []string{},
			Confidence:     parseFailureConfidence,
			Degraded:       true,
		}, nil
	}

	criteriaScores := make(map[string]float64)
	for name, v := range cast.ToStringMap(fields["criteria_scores"]) {
		criteriaScores[name] = utils.Clamp(cast.ToFloat64(v), 0, maxScore)
	}

	return &models.AIGrade{
		Score:          utils.Clamp(cast.ToFloat64(fields["score"]), 0, maxScore),
		MaxScore:       maxScore,
		Feedback:       cast.ToString(fields["feedback"]),
		CriteriaScores: criteriaScores,
		Strengths:      stringList(fields["strengths"]),
		Weaknesses:     stringList(fields["weaknesses"]),
		Suggestions:    stringList(fields["suggestions"]),
		Confidence:     utils.Clamp01(floatOr(fields, "confidence", 0.8)),
	}, nil
}

func (c *aiStudioClient) ValidateAnswer(ctx context.Context, question, answer string, expected *string) (*models.ValidationResult, error) {
	raw, err := c.generate(ctx, "validate_answer", buildValidationPrompt(question, answer, expected))
	if err != nil {
		return &models.ValidationResult{
			IsCorrect:   false,
			Confidence:  0,
			Feedback:    fmt.Sprintf("Error validating answer: %v", err),
			Score:       0,
			MaxScore:    defaultValidationMaxScore,
			Suggestions: []string{},
		}, err
	}

	fields, ok := c.parse("validate_answer", raw)
	if !ok {
		return &models.ValidationResult{
			IsCorrect:   false,
			Confidence:  parseFailureConfidence,
			Feedback:    raw,
			Score:       0,
			MaxScore:    defaultValidationMaxScore,
			Explanation: raw,
			Suggestions: []string{},
		}, nil
	}

	maxScore := floatOr(fields, "max_score", defaultValidationMaxScore)
	if maxScore <= 0 {
		maxScore = defaultValidationMaxScore
	}

	return &models.ValidationResult{
		IsCorrect:   cast.ToBool(fields["is_correct"]),
		Confidence:  utils.Clamp01(cast.ToFloat64(fields["confidence"])),
		Feedback:    cast.ToString(fields["feedback"]),
		Score:       utils.Clamp(cast.ToFloat64(fields["score"]), 0, maxScore),
		MaxScore:    maxScore,
		Explanation: cast.ToString(fields["explanation"]),
		Suggestions: stringList(fields["suggestions"]),
	}, nil
}

func (c *aiStudioClient) CheckPlagiarism(ctx context.Context, text string) (*models.PlagiarismResult, error) {
	raw, err := c.generate(ctx, "check_plagiarism", buildPlagiarismPrompt(text))
	if err != nil {
		return &models.PlagiarismResult{
			IsOriginal:      true,
			Confidence:      0,
			SimilarityScore: 0,
			Feedback:        fmt.Sprintf("Error checking plagiarism: %v", err),
			Concerns:        []string{},
			Suggestions:     []string{},
		}, err
	}

	fields, ok := c.parse("check_plagiarism", raw)
	if !ok {
		return &models.PlagiarismResult{
			IsOriginal:      true,
			Confidence:      parseFailureConfidence,
			SimilarityScore: 0,
			Feedback:        raw,
			Concerns:        []string{},
			Suggestions:     []string{},
		}, nil
	}

	isOriginal := true
	if v, ok := fields["is_original"]; ok && v != nil {
		isOriginal = cast.ToBool(v)
	}

	return &models.PlagiarismResult{
		IsOriginal:      isOriginal,
		Confidence:      utils.Clamp01(floatOr(fields, "confidence", 0.8)),
		SimilarityScore: utils.Clamp01(floatOr(fields, "similarity_score", 0.1)),
		Feedback:        cast.ToString(fields["feedback"]),
		Concerns:        stringList(fields["concerns"]),
		Suggestions:     stringList(fields["suggestions"]),
	}, nil
}

func (c *aiStudioClient) EvaluateAnswer(ctx context.Context, question, correctAnswer, userAnswer string, maxScore float64) (*models.AnswerEvaluation, error) {
	raw, err := c.generate(ctx, "evaluate_answer", buildEvaluationPrompt(question, correctAnswer, userAnswer, maxScore))
	if err != nil {
		return &models.AnswerEvaluation{
			Score:       0,
			MaxScore:    maxScore,
			Percentage:  0,
			IsCorrect:   false,
			Feedback:    fmt.Sprintf("Unable to evaluate answer: %v", err),
			Strengths:   []string{},
			Weaknesses:  []string{},
			Suggestions: []string{},
			Confidence:  0,
		}, err
	}

	fields, ok := c.parse("evaluate_answer", raw)
	if !ok {
		return &models.AnswerEvaluation{
			Score:       0,
			MaxScore:    maxScore,
			Percentage:  0,
			IsCorrect:   false,
			Feedback:    raw,
			Strengths:   []string{},
			Weaknesses:  []string{parseFailureWeakness},
			Suggestions: []string{},
			Confidence:  parseFailureConfidence,
		}, nil
	}

	score := utils.Clamp(cast.ToFloat64(fields["score"]), 0, maxScore)
	feedback := cast.ToString(fields["feedback"])
	if feedback == "" {
		feedback = "No feedback provided"
	}

	return &models.AnswerEvaluation{
		Score:       score,
		MaxScore:    maxScore,
		Percentage:  utils.Percentage(score, maxScore),
		IsCorrect:   maxScore > 0 && score >= maxScore*c.correctThreshold,
		Feedback:    feedback,
		Strengths:   stringList(fields["strengths"]),
		Weaknesses:  stringList(fields["weaknesses"]),
		Suggestions: stringList(fields["suggestions"]),
		Confidence:  utils.Clamp01(floatOr(fields, "confidence", 0.8)),
	}, nil
}

func (c *aiStudioClient) generate(ctx context.Context, op, prompt string) (string, error) {
	if c.generator == nil {
		return "", fmt.Errorf("%w: no text generator configured", ErrUpstreamUnavailable)
	}

	startTime := time.Now()
	raw, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", op).Dur("duration", time.Since(startTime)).Msg("AI Studio call failed")
		return "", fmt.Errorf("ai studio %s: %w", op, err)
	}

	c.logger.Debug().Str("operation", op).Dur("duration", time.Since(startTime)).Msg("AI Studio call completed")
	return raw, nil
}

// parse strips code fences and decodes exactly one JSON object.
func (c *aiStudioClient) parse(op, raw string) (map[string]interface{}, bool) {
	txt := stripCodeFences(raw)

	decoder := json.NewDecoder(strings.NewReader(txt))
	decoder.UseNumber()
	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil || fields == nil || decoder.More() {
		c.logger.Warn().
			Str("operation", op).
			Int("response_length", len(raw)).
			Msg("AI Studio response is not a JSON object, using degraded result")
		return nil, false
	}
	return fields, true
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// floatOr coerces fields[key] to a float, returning def when the key is
// absent, null or not numeric.
func floatOr(fields map[string]interface{}, key string, def float64) float64 {
	v, ok := fields[key]
	if !ok || v == nil {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

// stringList accepts a JSON array of scalars or a single string.
func stringList(v interface{}) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case nil:
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []interface{}:
		for _, item := range t {
			if s := strings.TrimSpace(cast.ToString(item)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
