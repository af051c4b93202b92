package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"google.golang.org/api/option"
)

// TextGenerator sends one prompt to a generative model and returns its text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	EmbeddingModel  string
	Timeout         time.Duration
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

// NewGeminiClient opens the shared AI Studio client. The caller closes it on shutdown.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return cl, nil
}

type geminiGenerator struct {
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewGeminiGenerator configures the model once; it is read-only afterwards.
func NewGeminiGenerator(client *genai.Client, cfg GeminiConfig, logger zerolog.Logger) TextGenerator {
	m := client.GenerativeModel(strings.TrimSpace(cfg.Model))
	m.SetTemperature(cfg.Temperature)
	m.SetTopK(cfg.TopK)
	m.SetTopP(cfg.TopP)
	m.SetMaxOutputTokens(cfg.MaxOutputTokens)
	m.ResponseMIMEType = "application/json"

	return &geminiGenerator{
		model:   m,
		name:    cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	startTime := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini %s: %v", ErrUpstreamUnavailable, g.name, err)
	}

	txt := firstText(resp)
	if txt == "" {
		return "", fmt.Errorf("%w: gemini %s returned no candidates", ErrUpstreamUnavailable, g.name)
	}

	g.logger.Debug().
		Str("model", g.name).
		Int("response_length", len(txt)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// maxEmbedBatch is the most texts BatchEmbedContents accepts in one request.
const maxEmbedBatch = 100

// GeminiEmbedder embeds texts with an AI Studio embedding model.
type GeminiEmbedder struct {
	name    string
	timeout time.Duration
	// embedBatch embeds at most maxEmbedBatch non-blank texts.
	embedBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

func NewGeminiEmbedder(client *genai.Client, cfg GeminiConfig) *GeminiEmbedder {
	model := client.EmbeddingModel(strings.TrimSpace(cfg.EmbeddingModel))
	return &GeminiEmbedder{
		name:       cfg.EmbeddingModel,
		timeout:    cfg.Timeout,
		embedBatch: modelBatchEmbedder(model),
	}
}

func modelBatchEmbedder(model *genai.EmbeddingModel) func(context.Context, []string) ([][]float32, error) {
	return func(ctx context.Context, texts []string) ([][]float32, error) {
		batch := model.NewBatch()
		for _, text := range texts {
			batch.AddContent(genai.Text(text))
		}
		resp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, err
		}
		vectors := make([][]float32, len(resp.Embeddings))
		for i, emb := range resp.Embeddings {
			if emb != nil {
				vectors[i] = emb.Values
			}
		}
		return vectors, nil
	}
}

// Embed sends non-blank texts in batches of at most maxEmbedBatch. Blank texts
// get an empty vector, which scores 0 against anything.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out := make([][]float32, len(texts))
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			positions = append(positions, i)
		}
	}

	for _, chunk := range lo.Chunk(positions, maxEmbedBatch) {
		batch := lo.Map(chunk, func(pos int, _ int) string { return texts[pos] })
		vectors, err := e.embedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: gemini embeddings %s: %v", ErrUpstreamUnavailable, e.name, err)
		}
		if len(vectors) != len(chunk) {
			return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrMalformedUpstreamResponse, len(chunk), len(vectors))
		}
		for i, vec := range vectors {
			if len(vec) == 0 {
				return nil, fmt.Errorf("%w: embedding %d is empty", ErrMalformedUpstreamResponse, chunk[i])
			}
			out[chunk[i]] = vec
		}
	}
	return out, nil
}
