package driven

import (
	"context"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// LLMService provides language model operations for document
// understanding. This is an optional service - when nil, indexing still
// stores chunks and vectors, but extraction, summaries and ask are
// disabled.
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ExtractStructured runs the type-specific extraction prompt over
	// the document text and returns the structured data recovered from
	// the reply. Returns domain.ErrPromptNotDefined for types without
	// an extraction prompt (appraisal, disclosure, general).
	ExtractStructured(ctx context.Context, text string, docType domain.DocumentType) (map[string]any, error)

	// Summarise creates a short summary of the document text using the
	// type-specific summary prompt.
	Summarise(ctx context.Context, text, filename string, docType domain.DocumentType) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is the system prompt, empty for none.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
