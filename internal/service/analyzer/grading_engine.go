package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/nlp"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

const (
	strengthThreshold = 0.7
	weaknessThreshold = 0.5

	shortAnswerWords = 50
	longAnswerWords  = 500
)

const (
	WeaknessContent   = "Insufficient content coverage"
	WeaknessStructure = "Poor organization"
	WeaknessLanguage  = "Limited vocabulary and sentence variety"
	WeaknessRelevance = "Low relevance to question"

	StrengthContent   = "Comprehensive content coverage"
	StrengthStructure = "Well-organized structure"
	StrengthLanguage  = "Good language use"
	StrengthRelevance = "High relevance to question"
)

var transitionWords = []string{"however", "therefore", "moreover", "furthermore", "additionally", "consequently"}

// Weights are the share of max score each dimension is worth. They must sum to 1.
type Weights struct {
	Content   float64
	Structure float64
	Language  float64
	Relevance float64
}

func DefaultWeights() Weights {
	return Weights{Content: 0.4, Structure: 0.2, Language: 0.2, Relevance: 0.2}
}

func (w Weights) Valid() bool {
	for _, v := range []float64{w.Content, w.Structure, w.Language, w.Relevance} {
		if v < 0 || math.IsNaN(v) {
			return false
		}
	}
	return math.Abs(w.Content+w.Structure+w.Language+w.Relevance-1) < 1e-9
}

type GradingEngine interface {
	Grade(ctx context.Context, question, answer string, maxScore float64) (*models.GradingResult, error)
}

type gradingEngine struct {
	similarity SimilarityAnalyzer
	analyzer   nlp.Analyzer
	weights    Weights
	logger     zerolog.Logger
}

func NewGradingEngine(similarity SimilarityAnalyzer, analyzer nlp.Analyzer, weights Weights, logger zerolog.Logger) GradingEngine {
	if !weights.Valid() {
		logger.Warn().Interface("weights", weights).Msg("Invalid grading weights, using defaults")
		weights = DefaultWeights()
	}
	return &gradingEngine{
		similarity: similarity,
		analyzer:   analyzer,
		weights:    weights,
		logger:     logger,
	}
}

// fractions are the per-dimension scores on a 0..1 scale.
type fractions struct {
	content, structure, language, relevance float64
}

// Grade never returns a nil result. On an internal fault the result is the
// terminal error result and err wraps ErrInternalComputation.
func (e *gradingEngine) Grade(ctx context.Context, question, answer string, maxScore float64) (result *models.GradingResult, err error) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("Recovered panic in essay grading")
			err = fmt.Errorf("%w: %v", ErrInternalComputation, r)
			result = models.ErrorGradingResult(maxScore, err)
		}
	}()

	if maxScore <= 0 || math.IsNaN(maxScore) || math.IsInf(maxScore, 0) {
		err = fmt.Errorf("%w: max score must be a positive number, got %v", ErrInternalComputation, maxScore)
		return models.ErrorGradingResult(maxScore, err), err
	}

	var f fractions
	if !nlp.IsBlank(answer) {
		f = e.score(ctx, question, answer)
	}

	sub := models.SubScores{
		Content:   utils.Round(f.content*e.weights.Content*maxScore, 2),
		Structure: utils.Round(f.structure*e.weights.Structure*maxScore, 2),
		Language:  utils.Round(f.language*e.weights.Language*maxScore, 2),
		Relevance: utils.Round(f.relevance*e.weights.Relevance*maxScore, 2),
	}
	sub = fitSubScores(sub, maxScore)
	score := utils.Clamp(utils.Round(sub.Total(), 2), 0, maxScore)

	weaknesses := identifyWeaknesses(f)
	result = &models.GradingResult{
		Score:         score,
		MaxScore:      maxScore,
		Percentage:    utils.Percentage(score, maxScore),
		Feedback:      generateFeedback(f),
		Strengths:     identifyStrengths(f),
		Weaknesses:    weaknesses,
		Suggestions:   generateSuggestions(weaknesses, answer),
		Confidence:    confidence(sub.Values()),
		GradingMethod: models.GradingMethodTraditionalNLP,
		SubScores:     &sub,
	}

	e.logger.Debug().
		Float64("score", result.Score).
		Float64("max_score", maxScore).
		Float64("confidence", result.Confidence).
		Dur("processing_time", time.Since(startTime)).
		Msg("Essay graded")

	return result, nil
}

func (e *gradingEngine) score(ctx context.Context, question, answer string) fractions {
	normQuestion := nlp.Normalize(question)
	normAnswer := nlp.Normalize(answer)

	similarity := e.similarity.Similarity(ctx, normQuestion, normAnswer)

	return fractions{
		content:   e.contentScore(similarity, normQuestion, normAnswer),
		structure: structureScore(answer),
		language:  e.languageScore(answer),
		relevance: relevanceScore(similarity, normQuestion, normAnswer),
	}
}

func (e *gradingEngine) contentScore(similarity float64, question, answer string) float64 {
	questionKeywords := e.analyzer.Keywords(question, 0)
	answerKeywords := make(map[string]struct{})
	for _, k := range e.analyzer.Keywords(answer, 0) {
		answerKeywords[k] = struct{}{}
	}

	var coverage float64
	if len(questionKeywords) > 0 {
		matched := 0
		for _, k := range questionKeywords {
			if _, ok := answerKeywords[k]; ok {
				matched++
			}
		}
		coverage = float64(matched) / float64(len(questionKeywords))
	}

	return utils.Clamp01(similarity*0.6 + coverage*0.4)
}

func structureScore(answer string) float64 {
	var score float64

	sentences := len(nlp.SplitSentences(answer))
	switch {
	case sentences >= 3 && sentences <= 10:
		score += 0.3
	case sentences > 10:
		score += 0.2
	default:
		score += 0.1
	}

	if len(nlp.SplitParagraphs(answer)) > 1 {
		score += 0.3
	} else {
		score += 0.1
	}

	words := wordSet(answer)
	hasTransition := false
	for _, t := range transitionWords {
		if _, ok := words[t]; ok {
			hasTransition = true
			break
		}
	}
	if hasTransition {
		score += 0.4
	} else {
		score += 0.2
	}

	return utils.Clamp01(score)
}

func (e *gradingEngine) languageScore(answer string) float64 {
	profile := e.analyzer.Profile(answer)

	diversity := math.Min(1, profile.LexicalDiversity/0.7)
	sentenceLength := math.Min(1, profile.AvgSentenceLength/15)
	wordLength := math.Min(1, profile.AvgWordLength/5)

	return utils.Clamp01(diversity*0.4 + sentenceLength*0.3 + wordLength*0.3)
}

func relevanceScore(similarity float64, question, answer string) float64 {
	q := wordSet(question)
	a := wordSet(answer)
	has := func(set map[string]struct{}, words ...string) bool {
		for _, w := range words {
			if _, ok := set[w]; ok {
				return true
			}
		}
		return false
	}

	score := similarity
	if has(q, "what") && has(a, "what") {
		score += 0.1
	}
	if has(q, "how") && has(a, "how", "by") {
		score += 0.1
	}
	if has(q, "why") && has(a, "because", "reason") {
		score += 0.1
	}
	return utils.Clamp01(score)
}

func generateFeedback(f fractions) []string {
	band := func(v float64, excellent, good, poor string) string {
		pct := v * 100
		switch {
		case pct >= 80:
			return excellent
		case pct >= 60:
			return good
		default:
			return poor
		}
	}

	return []string{
		band(f.content,
			"Excellent content coverage and relevance to the question.",
			"Good content coverage, but could be more comprehensive.",
			"Content needs improvement. Focus more on directly addressing the question."),
		band(f.structure,
			"Well-structured answer with clear organization.",
			"Good structure, but could benefit from better organization.",
			"Structure needs improvement. Consider using paragraphs and clear transitions."),
		band(f.language,
			"Excellent use of language and vocabulary.",
			"Good language use, but could be more varied.",
			"Language could be improved. Try using more varied vocabulary and sentence structures."),
		band(f.relevance,
			"Highly relevant to the question asked.",
			"Mostly relevant, but could be more focused.",
			"Answer needs to be more directly relevant to the question."),
	}
}

func identifyStrengths(f fractions) []string {
	strengths := make([]string, 0, 4)
	if f.content > strengthThreshold {
		strengths = append(strengths, StrengthContent)
	}
	if f.structure > strengthThreshold {
		strengths = append(strengths, StrengthStructure)
	}
	if f.language > strengthThreshold {
		strengths = append(strengths, StrengthLanguage)
	}
	if f.relevance > strengthThreshold {
		strengths = append(strengths, StrengthRelevance)
	}
	return strengths
}

func identifyWeaknesses(f fractions) []string {
	weaknesses := make([]string, 0, 4)
	if f.content < weaknessThreshold {
		weaknesses = append(weaknesses, WeaknessContent)
	}
	if f.structure < weaknessThreshold {
		weaknesses = append(weaknesses, WeaknessStructure)
	}
	if f.language < weaknessThreshold {
		weaknesses = append(weaknesses, WeaknessLanguage)
	}
	if f.relevance < weaknessThreshold {
		weaknesses = append(weaknesses, WeaknessRelevance)
	}
	return weaknesses
}

var suggestionFor = map[string]string{
	WeaknessContent:   "Expand your answer with more detailed explanations and examples",
	WeaknessStructure: "Organize your answer into clear paragraphs with topic sentences",
	WeaknessLanguage:  "Use more varied vocabulary and different sentence structures",
	WeaknessRelevance: "Focus more directly on answering the specific question asked",
}

func generateSuggestions(weaknesses []string, answer string) []string {
	suggestions := make([]string, 0, len(weaknesses)+1)
	for _, w := range weaknesses {
		if s, ok := suggestionFor[w]; ok {
			suggestions = append(suggestions, s)
		}
	}

	wordCount := len(strings.Fields(answer))
	if wordCount < shortAnswerWords {
		suggestions = append(suggestions, "Provide more detailed explanations to support your points")
	} else if wordCount > longAnswerWords {
		suggestions = append(suggestions, "Consider being more concise while maintaining clarity")
	}
	return suggestions
}

// confidence is 1 - stddev/mean of the sub-scores, 0 when the mean is 0.
func confidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))
	if mean <= 0 {
		return 0
	}

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(scores)))

	return utils.Round(utils.Clamp01(1-stdDev/mean), 4)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range nlp.Words(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

// fitSubScores trims rounded sub-scores, largest first, until their sum in
// cents no longer exceeds maxScore.
func fitSubScores(sub models.SubScores, maxScore float64) models.SubScores {
	parts := []*float64{&sub.Content, &sub.Structure, &sub.Language, &sub.Relevance}
	limit := math.Floor(utils.Round(maxScore*100, 6))

	var total float64
	for _, p := range parts {
		total += math.Round(*p * 100)
	}

	for excess := total - limit; excess > 0; {
		largest := parts[0]
		for _, p := range parts[1:] {
			if *p > *largest {
				largest = p
			}
		}
		cents := math.Round(*largest * 100)
		if cents <= 0 {
			break
		}
		take := math.Min(excess, cents)
		*largest = (cents - take) / 100
		excess -= take
	}
	return sub
}
