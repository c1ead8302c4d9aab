package driving

import (
	"context"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// DocumentService provides document management capabilities to external actors.
type DocumentService interface {
	// ListDocuments returns all indexed documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetDocument retrieves a document by its ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentContent returns the full normalised content of a document.
	GetDocumentContent(ctx context.Context, id string) (string, error)

	// GetDocumentDetails returns a document together with its chunk count
	// and any structured metadata extracted during indexing.
	GetDocumentDetails(ctx context.Context, id string) (*DocumentDetails, error)

	// DeleteDocument removes a document, its chunks and its metadata.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentDetails bundles a document with its indexing artefacts.
type DocumentDetails struct {
	Document   domain.Document
	ChunkCount int
	Metadata   *domain.DocumentMetadata
}
