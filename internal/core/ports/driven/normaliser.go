package driven

import (
	"context"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// Normaliser transforms raw uploaded bytes into extracted text.
// Each normaliser handles specific declared MIME types.
type Normaliser interface {
	// Handles reports whether this normaliser accepts the declared
	// MIME type. Matching is by substring: word-processor payloads
	// declare types containing "word" or "document".
	Handles(mimeType string) bool

	// Priority returns the selection priority (higher = preferred).
	// Specialised normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document with
	// Content populated. It never fails on decode problems - they
	// degrade to empty content.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces a Document with Content.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document
}
