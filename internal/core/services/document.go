package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driving"
	"github.com/parcelworks/deedex-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides read and delete access to indexed documents.
type DocumentService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
// The vectorIndex parameter is optional (can be nil): without it,
// deletions skip the vector cleanup.
func NewDocumentService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
	}
}

// ListDocuments returns all indexed documents.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// GetDocument retrieves a document by its ID.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}
	return s.docStore.GetDocument(ctx, id)
}

// GetDocumentContent returns the full normalised content of a document.
func (s *DocumentService) GetDocumentContent(ctx context.Context, id string) (string, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// GetDocumentDetails returns a document together with its chunk count
// and any structured metadata extracted during indexing.
func (s *DocumentService) GetDocumentDetails(ctx context.Context, id string) (*driving.DocumentDetails, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	chunks, err := s.docStore.GetChunks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get chunks for %s: %w", id, err)
	}

	meta, err := s.docStore.GetMetadata(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get metadata for %s: %w", id, err)
	}

	return &driving.DocumentDetails{
		Document:   *doc,
		ChunkCount: len(chunks),
		Metadata:   meta,
	}, nil
}

// DeleteDocument removes a document, its chunks and its metadata, and
// drops the chunk vectors from the index.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if s.vectorIndex != nil {
		chunks, err := s.docStore.GetChunks(ctx, id)
		if err != nil {
			return fmt.Errorf("get chunks for %s: %w", id, err)
		}
		for _, chunk := range chunks {
			if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
				logger.Warn("Failed to remove vector for chunk %s: %v", chunk.ID, err)
			}
		}
	}

	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	logger.Info("Deleted document %s (%s)", doc.ID, doc.Filename)
	return nil
}
