package driven

import (
	"context"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// DocumentStore persists documents, chunks and extraction metadata.
// Backed by SQLite for durable storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any existing
	// chunks for the same document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// SaveMetadata stores or updates extraction metadata for a document.
	SaveMetadata(ctx context.Context, meta *domain.DocumentMetadata) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetMetadata retrieves extraction metadata for a document.
	// Returns domain.ErrNotFound when no extraction was stored.
	GetMetadata(ctx context.Context, documentID string) (*domain.DocumentMetadata, error)

	// DeleteDocument removes a document, its chunks and metadata.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// AllChunks returns every stored chunk. Used to warm the vector
	// index at startup.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)
}
