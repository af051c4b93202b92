package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
	"github.com/Min-Trees/abc-interview-microservice/internal/nlp"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/analyzer"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

type TextService interface {
	CheckSimilarity(ctx context.Context, req models.SimilarityRequest) (*models.SimilarityResponse, error)
	AnalyzeText(ctx context.Context, req models.AnalyzeTextRequest) (*models.AnalyzeTextResponse, error)
}

type textService struct {
	similarity analyzer.SimilarityAnalyzer
	analyzer   nlp.Analyzer
	threshold  float64
	logger     zerolog.Logger
}

func NewTextService(similarity analyzer.SimilarityAnalyzer, textAnalyzer nlp.Analyzer, threshold float64, logger zerolog.Logger) TextService {
	return &textService{
		similarity: similarity,
		analyzer:   textAnalyzer,
		threshold:  threshold,
		logger:     logger,
	}
}

func (s *textService) CheckSimilarity(ctx context.Context, req models.SimilarityRequest) (*models.SimilarityResponse, error) {
	if err := requireFields([2]string{"text1", req.Text1}, [2]string{"text2", req.Text2}); err != nil {
		return nil, err
	}

	result := s.similarity.Compare(ctx, req.Text1, req.Text2)
	score := utils.Round(result.Score, 4)

	return &models.SimilarityResponse{
		SimilarityScore: score,
		IsSimilar:       result.Score > s.threshold,
		Confidence:      score,
		Components:      &result,
	}, nil
}

func (s *textService) AnalyzeText(ctx context.Context, req models.AnalyzeTextRequest) (*models.AnalyzeTextResponse, error) {
	if err := requireFields([2]string{"text", req.Text}); err != nil {
		return nil, err
	}

	resp := &models.AnalyzeTextResponse{
		Normalized: nlp.Normalize(req.Text),
		Profile:    s.analyzer.Profile(req.Text),
		Entities:   s.analyzer.Entities(req.Text),
		Sentiment:  s.analyzer.Sentiment(req.Text),
	}
	if len(req.Categories) > 0 {
		c := s.analyzer.Classify(req.Text, req.Categories)
		resp.Classification = &c
	}
	return resp, nil
}
