package cli

import (
	"context"
	"time"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driving"
)

// --- Fake services for command tests ---

type fakeSearchService struct {
	results []domain.SearchResult
	answer  string
	err     error
}

func (f *fakeSearchService) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSearchService) Ask(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeDocumentService struct {
	docs    []domain.Document
	details *driving.DocumentDetails
	deleted []string
	err     error
}

func (f *fakeDocumentService) ListDocuments(_ context.Context) ([]domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeDocumentService) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocumentService) GetDocumentContent(ctx context.Context, id string) (string, error) {
	doc, err := f.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

func (f *fakeDocumentService) GetDocumentDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.details == nil {
		return nil, domain.ErrNotFound
	}
	return f.details, nil
}

func (f *fakeDocumentService) DeleteDocument(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeIndexerService struct {
	report *driving.IndexReport
	err    error
}

func (f *fakeIndexerService) Index(_ context.Context, _ *domain.RawDocument) (*driving.IndexReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeIndexerService) Reindex(_ context.Context, _ string) (*driving.IndexReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

// setupTestServices installs fake services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	prevIndexer := indexerService
	prevSearch := searchService
	prevDocument := documentService

	now := time.Now()
	doc := domain.Document{
		ID:        "doc-1",
		URI:       "file:///tmp/closing.txt",
		Filename:  "closing.txt",
		Title:     "Settlement Statement",
		Content:   "The sale price was $450,000.",
		Type:      domain.TypeSettlement,
		Category:  "closing",
		CreatedAt: now,
		UpdatedAt: now,
	}

	indexerService = &fakeIndexerService{report: &driving.IndexReport{
		DocumentID:    "doc-1",
		Type:          domain.TypeSettlement,
		Category:      "closing",
		ChunksIndexed: 2,
		TotalChunks:   2,
	}}
	searchService = &fakeSearchService{
		results: []domain.SearchResult{{
			Document:   doc,
			Chunk:      domain.Chunk{ID: "chunk-1", DocumentID: "doc-1", Content: doc.Content},
			Score:      0.92,
			Highlights: []string{"The sale price was $450,000."},
		}},
		answer: "The sale price was $450,000.",
	}
	documentService = &fakeDocumentService{
		docs: []domain.Document{doc},
		details: &driving.DocumentDetails{
			Document:   doc,
			ChunkCount: 2,
		},
	}

	return func() {
		indexerService = prevIndexer
		searchService = prevSearch
		documentService = prevDocument
	}
}
