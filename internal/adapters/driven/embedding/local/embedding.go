// Package local provides a deterministic feature-hashing embedding service.
// No external model is involved: vectors are built from character, bigram,
// trigram and word features and L2-normalised, so identical text always
// yields the identical vector.
package local

import (
	"context"
	"math"
	"strings"

	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 1536
	DefaultMaxChars   = 8000
	DefaultMaxWords   = 500
)

// Feature weights for each signal class.
const (
	unigramWeight = 1.0
	bigramWeight  = 0.5
	trigramWeight = 0.25
	wordWeight    = 2.0
)

// Config holds configuration for the local embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 1536).
	Dimensions int

	// MaxChars caps how many characters contribute n-gram features
	// (default: 8000). Longer text is truncated, not rejected.
	MaxChars int

	// MaxWords caps how many words contribute word features (default: 500).
	MaxWords int
}

// EmbeddingService generates deterministic hash-based embeddings locally.
type EmbeddingService struct {
	dimensions int
	maxChars   int
	maxWords   int
}

// NewEmbeddingService creates a new local embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.MaxChars == 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if cfg.MaxWords == 0 {
		cfg.MaxWords = DefaultMaxWords
	}

	return &EmbeddingService{
		dimensions: cfg.Dimensions,
		maxChars:   cfg.MaxChars,
		maxWords:   cfg.MaxWords,
	}
}

// Embed generates a vector embedding for the given text.
// Empty input yields an all-zero vector, never an error.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	embedding := make([]float64, s.dimensions)
	lower := []rune(strings.ToLower(text))

	// Character-level features: unigrams, bigrams and trigrams, each
	// hashed to a slot with position-dependent weighting.
	limit := len(lower)
	if limit > s.maxChars {
		limit = s.maxChars
	}
	for i := 0; i < limit; i++ {
		code := int64(lower[i])
		embedding[(code*int64(i+1))%int64(s.dimensions)] += unigramWeight

		if i < len(lower)-1 {
			bigram := code*256 + int64(lower[i+1])
			embedding[(bigram*7)%int64(s.dimensions)] += bigramWeight
		}

		if i < len(lower)-2 {
			trigram := code*65536 + int64(lower[i+1])*256 + int64(lower[i+2])
			embedding[(trigram*13)%int64(s.dimensions)] += trigramWeight
		}
	}

	// Word-level features.
	words := strings.Fields(string(lower))
	count := 0
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if count >= s.maxWords {
			break
		}
		count++
		slot := wordHash(word) % int64(s.dimensions)
		embedding[slot] += wordWeight
	}

	return normalise(embedding), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding scheme.
func (s *EmbeddingService) ModelName() string {
	return "local-feature-hash-v1"
}

// Ping validates the service is usable. The local embedder has no
// external dependency, so this always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// wordHash computes a 32-bit string hash (h*31 + c with wrapping) and
// returns its absolute value.
func wordHash(word string) int64 {
	var h int32
	for _, r := range word {
		h = (h << 5) - h + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// normalise scales the vector to unit length. A zero vector stays zero.
func normalise(v []float64) []float32 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}

	magnitude := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(x / magnitude)
	}
	return out
}
