package analyzer

import (
	"context"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/nlp"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

const (
	SemanticWeight = 0.6
	LexicalWeight  = 0.3
	EditWeight     = 0.1

	DefaultSimilarThreshold   = 0.7
	DefaultDuplicateThreshold = 0.8
)

type SimilarityAnalyzer interface {
	Compare(ctx context.Context, text1, text2 string) models.SimilarityResult
	Similarity(ctx context.Context, text1, text2 string) float64
	FindSimilar(ctx context.Context, query string, candidates []models.Candidate, threshold float64) []models.SimilarMatch
	DetectDuplicates(ctx context.Context, text string, texts []string, threshold float64) []models.SimilarMatch
}

type similarityAnalyzer struct {
	embedder Embedder
	logger   zerolog.Logger
}

func NewSimilarityAnalyzer(embedder Embedder, logger zerolog.Logger) SimilarityAnalyzer {
	return &similarityAnalyzer{
		embedder: embedder,
		logger:   logger,
	}
}

func (a *similarityAnalyzer) Compare(ctx context.Context, text1, text2 string) models.SimilarityResult {
	vectors := a.embed(ctx, text1, text2)
	var semantic float64
	if vectors != nil {
		semantic = utils.Clamp01(Cosine(vectors[0], vectors[1]))
	}
	return fuse(semantic, text1, text2)
}

func (a *similarityAnalyzer) Similarity(ctx context.Context, text1, text2 string) float64 {
	return a.Compare(ctx, text1, text2).Score
}

func (a *similarityAnalyzer) FindSimilar(ctx context.Context, query string, candidates []models.Candidate, threshold float64) []models.SimilarMatch {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	matches := a.rank(ctx, query, texts, threshold)
	for i := range matches {
		matches[i].ID = candidates[matches[i].Index].ID
	}
	return matches
}

func (a *similarityAnalyzer) DetectDuplicates(ctx context.Context, text string, texts []string, threshold float64) []models.SimilarMatch {
	return a.rank(ctx, text, texts, threshold)
}

// rank scores query against every text and keeps those at or above threshold,
// highest first. Equal scores keep input order.
func (a *similarityAnalyzer) rank(ctx context.Context, query string, texts []string, threshold float64) []models.SimilarMatch {
	startTime := time.Now()
	matches := make([]models.SimilarMatch, 0)
	if len(texts) == 0 {
		return matches
	}

	vectors := a.embed(ctx, append([]string{query}, texts...)...)

	for i, text := range texts {
		var semantic float64
		if vectors != nil {
			semantic = utils.Clamp01(Cosine(vectors[0], vectors[i+1]))
		}
		score := fuse(semantic, query, text).Score
		if score >= threshold {
			matches = append(matches, models.SimilarMatch{
				Index:           i,
				Text:            text,
				SimilarityScore: score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	a.logger.Debug().
		Int("candidates", len(texts)).
		Int("matches", len(matches)).
		Float64("threshold", threshold).
		Dur("processing_time", time.Since(startTime)).
		Msg("Similarity ranking completed")

	return matches
}

// embed returns nil when the semantic signal is unavailable; callers score it as 0.
func (a *similarityAnalyzer) embed(ctx context.Context, texts ...string) [][]float32 {
	if a.embedder == nil {
		return nil
	}
	vectors, err := a.embedder.Embed(ctx, texts...)
	if err != nil {
		a.logger.Warn().Err(err).Int("texts", len(texts)).Msg("Embedding failed, semantic similarity degraded to 0")
		return nil
	}
	if len(vectors) != len(texts) {
		a.logger.Warn().
			Int("texts", len(texts)).
			Int("vectors", len(vectors)).
			Msg("Embedder returned wrong number of vectors, semantic similarity degraded to 0")
		return nil
	}
	return vectors
}

func fuse(semantic float64, text1, text2 string) models.SimilarityResult {
	lexical := JaccardSimilarity(text1, text2)
	edit := EditSimilarity(text1, text2)
	return models.SimilarityResult{
		Score:    utils.Clamp01(SemanticWeight*semantic + LexicalWeight*lexical + EditWeight*edit),
		Semantic: semantic,
		Lexical:  lexical,
		Edit:     edit,
	}
}

// JaccardSimilarity compares the sets of lowercase whitespace separated tokens.
func JaccardSimilarity(text1, text2 string) float64 {
	set1 := make(map[string]struct{})
	for _, token := range nlp.Tokenize(text1) {
		set1[token] = struct{}{}
	}
	set2 := make(map[string]struct{})
	for _, token := range nlp.Tokenize(text2) {
		set2[token] = struct{}{}
	}

	intersection := 0
	for token := range set1 {
		if _, ok := set2[token]; ok {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// EditSimilarity is 1 - levenshtein/maxLen over runes, 0 when both are empty.
func EditSimilarity(text1, text2 string) float64 {
	maxLen := utf8.RuneCountInString(text1)
	if n := utf8.RuneCountInString(text2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0.0
	}
	distance := levenshtein.ComputeDistance(text1, text2)
	return utils.Clamp01(1 - float64(distance)/float64(maxLen))
}
