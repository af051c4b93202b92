package analyzer

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/Min-Trees/abc-interview-microservice/internal/nlp"
)

const DefaultEmbeddingDimensions = 512

// Embedder turns texts into dense vectors, one per input, in input order.
// Implementations are created once and must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float32, error)
}

// HashingEmbedder projects lemma unigrams and bigrams into a fixed number of
// signed buckets. It needs no model files and is deterministic.
type HashingEmbedder struct {
	dims int
}

func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultEmbeddingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

func (e *HashingEmbedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *HashingEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dims)
	tokens := strings.Fields(nlp.Normalize(text))
	if len(tokens) == 0 {
		tokens = nlp.Tokenize(text)
	}
	prev := ""
	for _, tok := range tokens {
		lemma := nlp.Lemma(tok)
		e.add(vec, lemma, 1)
		if prev != "" {
			e.add(vec, prev+" "+lemma, 1)
		}
		prev = lemma
	}
	return vec
}

func (e *HashingEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
