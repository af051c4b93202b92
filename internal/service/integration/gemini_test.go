package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
)

// limitedEmbedder rejects batches larger than the upstream limit and encodes
// each text's index into its vector.
type limitedEmbedder struct {
	batches []int
}

func (l *limitedEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) > maxEmbedBatch {
		return nil, fmt.Errorf("batch of %d exceeds %d", len(texts), maxEmbedBatch)
	}
	l.batches = append(l.batches, len(texts))
	out := make([][]float32, len(texts))
	for i, text := range texts {
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, err
		}
		out[i] = []float32{float32(n)}
	}
	return out, nil
}

func TestGeminiEmbedderChunksLargeInput(t *testing.T) {
	fake := &limitedEmbedder{}
	e := &GeminiEmbedder{name: "test-embedding", embedBatch: fake.embed}

	texts := make([]string, 250)
	for i := range texts {
		if i%10 == 0 {
			texts[i] = "  "
			continue
		}
		texts[i] = strconv.Itoa(i)
	}

	vectors, err := e.Embed(context.Background(), texts...)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(texts))
	}
	for i, vec := range vectors {
		if i%10 == 0 {
			if vec != nil {
				t.Errorf("blank text %d got vector %v", i, vec)
			}
			continue
		}
		if len(vec) != 1 || vec[0] != float32(i) {
			t.Errorf("text %d got vector %v", i, vec)
		}
	}

	// 225 non-blank texts
	want := []int{100, 100, 25}
	if fmt.Sprint(fake.batches) != fmt.Sprint(want) {
		t.Errorf("batches = %v, want %v", fake.batches, want)
	}
}

func TestGeminiEmbedderAllBlank(t *testing.T) {
	fake := &limitedEmbedder{}
	e := &GeminiEmbedder{embedBatch: fake.embed}

	vectors, err := e.Embed(context.Background(), "", " ")
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 2 || vectors[0] != nil || vectors[1] != nil {
		t.Errorf("vectors = %v", vectors)
	}
	if len(fake.batches) != 0 {
		t.Errorf("no request expected, got %v", fake.batches)
	}
}

func TestGeminiEmbedderErrors(t *testing.T) {
	cases := []struct {
		name  string
		embed func(context.Context, []string) ([][]float32, error)
		want  error
	}{
		{
			name: "upstream failure",
			embed: func(context.Context, []string) ([][]float32, error) {
				return nil, errors.New("quota exceeded")
			},
			want: ErrUpstreamUnavailable,
		},
		{
			name: "short response",
			embed: func(context.Context, []string) ([][]float32, error) {
				return [][]float32{{1}}, nil
			},
			want: ErrMalformedUpstreamResponse,
		},
		{
			name: "empty vector",
			embed: func(_ context.Context, texts []string) ([][]float32, error) {
				return make([][]float32, len(texts)), nil
			},
			want: ErrMalformedUpstreamResponse,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &GeminiEmbedder{embedBatch: tc.embed}
			_, err := e.Embed(context.Background(), "a", "b")
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
