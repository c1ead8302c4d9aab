package driving

import (
	"context"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// IndexerService runs the document indexing pipeline: extract text,
// classify, chunk, embed, persist, and optionally produce structured
// extraction and a summary via the LLM.
type IndexerService interface {
	// Index processes one raw document end to end and returns a report.
	Index(ctx context.Context, raw *domain.RawDocument) (*IndexReport, error)

	// Reindex re-runs the pipeline for a stored document, replacing its
	// chunks, vectors and metadata.
	Reindex(ctx context.Context, documentID string) (*IndexReport, error)
}

// IndexReport describes the outcome of an indexing run.
type IndexReport struct {
	// DocumentID is the indexed document.
	DocumentID string

	// Type is the detected document category.
	Type domain.DocumentType

	// Category is the display category recorded on the document.
	Category string

	// ChunksIndexed is the number of chunks stored with embeddings.
	ChunksIndexed int

	// TotalChunks is the number of chunks produced by the chunker.
	TotalChunks int

	// HasStructuredData reports whether LLM extraction produced data.
	HasStructuredData bool

	// HasSummary reports whether a summary was generated.
	HasSummary bool
}
