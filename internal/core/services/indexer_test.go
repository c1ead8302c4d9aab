package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/deedex-cli/internal/adapters/driven/storage/memory"
	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// stubNormaliser implements driven.Normaliser for testing.
type stubNormaliser struct {
	err error
}

func (n *stubNormaliser) Handles(_ string) bool { return true }
func (n *stubNormaliser) Priority() int         { return 5 }

func (n *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if n.err != nil {
		return nil, n.err
	}
	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:       "doc-new",
			URI:      raw.URI,
			Filename: raw.Filename,
			Title:    raw.Filename,
			Content:  string(raw.Content),
		},
	}, nil
}

// mockNormaliserRegistry implements NormaliserRegistry for testing.
type mockNormaliserRegistry struct {
	normaliser driven.Normaliser
}

func (m *mockNormaliserRegistry) ForMIMEType(_ string) driven.Normaliser {
	return m.normaliser
}

// mockPipeline implements driven.PostProcessorPipeline for testing.
// It splits content on blank lines, one chunk per paragraph.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	var chunks []domain.Chunk
	for i, part := range strings.Split(doc.Content, "\n\n") {
		chunks = append(chunks, domain.Chunk{
			ID:         doc.ID + "-chunk-" + string(rune('a'+i)),
			DocumentID: doc.ID,
			Content:    part,
			Position:   i,
		})
	}
	return chunks, nil
}

// failNthEmbedder fails embedding for one chunk by content match.
type failNthEmbedder struct {
	mockEmbeddingService
	failOn string
}

func (f *failNthEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(text, f.failOn) {
		return nil, errors.New("embed failed")
	}
	return f.mockEmbeddingService.Embed(ctx, text)
}

// --- Test helpers ---

func newTestIndexer(t *testing.T, llm driven.LLMService) (*IndexerService, *memory.DocumentStore, *mockVectorIndex) {
	t.Helper()
	docStore := memory.NewDocumentStore()
	vectorIndex := &mockVectorIndex{}
	service := NewIndexerService(
		&mockNormaliserRegistry{normaliser: &stubNormaliser{}},
		&mockPipeline{},
		&mockEmbeddingService{},
		docStore,
		vectorIndex,
		llm,
	)
	return service, docStore, vectorIndex
}

func settlementRaw() *domain.RawDocument {
	content := "SETTLEMENT STATEMENT for 12 Oak Lane.\n\n" +
		"The sale price was $450,000 and the closing occurred on June 15."
	return &domain.RawDocument{
		URI:      "file:///tmp/closing.txt",
		Filename: "closing.txt",
		MIMEType: "text/plain",
		Content:  []byte(content),
	}
}

// --- Tests ---

func TestIndexerService_Index_NilDocument(t *testing.T) {
	service, _, _ := newTestIndexer(t, nil)
	ctx := context.Background()

	_, err := service.Index(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Index(ctx, &domain.RawDocument{Filename: "empty.txt"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexerService_Index_RejectsImages(t *testing.T) {
	service, _, _ := newTestIndexer(t, nil)
	ctx := context.Background()

	_, err := service.Index(ctx, &domain.RawDocument{
		Filename: "scan.png",
		MIMEType: "image/png",
		Content:  []byte{0x89, 0x50, 0x4e, 0x47},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIndexerService_Index_NoNormaliser(t *testing.T) {
	docStore := memory.NewDocumentStore()
	service := NewIndexerService(
		&mockNormaliserRegistry{normaliser: nil},
		&mockPipeline{},
		&mockEmbeddingService{},
		docStore,
		&mockVectorIndex{},
		nil,
	)
	ctx := context.Background()

	_, err := service.Index(ctx, settlementRaw())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIndexerService_Index_TooLittleText(t *testing.T) {
	service, _, _ := newTestIndexer(t, nil)
	ctx := context.Background()

	_, err := service.Index(ctx, &domain.RawDocument{
		Filename: "stub.txt",
		MIMEType: "text/plain",
		Content:  []byte("too short"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Contains(t, err.Error(), "scanned images or encrypted")
}

func TestIndexerService_Index_ClassifiesAndPersists(t *testing.T) {
	service, docStore, vectorIndex := newTestIndexer(t, nil)
	ctx := context.Background()

	report, err := service.Index(ctx, settlementRaw())

	require.NoError(t, err)
	assert.Equal(t, domain.TypeSettlement, report.Type)
	assert.Equal(t, "closing", report.Category)
	assert.Equal(t, 2, report.TotalChunks)
	assert.Equal(t, 2, report.ChunksIndexed)
	assert.False(t, report.HasStructuredData)
	assert.False(t, report.HasSummary)

	doc, err := docStore.GetDocument(ctx, report.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeSettlement, doc.Type)
	assert.Equal(t, "closing", doc.Category)
	require.NotNil(t, doc.IndexedAt)

	chunks, err := docStore.GetChunks(ctx, report.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.NotNil(t, chunks[0].Embedding)

	assert.Len(t, vectorIndex.added, 2)
}

func TestIndexerService_Index_GeneralDocumentKeepsCategory(t *testing.T) {
	service, docStore, _ := newTestIndexer(t, nil)
	ctx := context.Background()

	report, err := service.Index(ctx, &domain.RawDocument{
		Filename: "notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("Meeting notes about nothing in particular, long enough to pass the extraction floor."),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TypeGeneral, report.Type)
	assert.Equal(t, "other", report.Category)

	doc, err := docStore.GetDocument(ctx, report.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "other", doc.Category)
}

func TestIndexerService_Index_EmbedFailureSkipsChunk(t *testing.T) {
	docStore := memory.NewDocumentStore()
	vectorIndex := &mockVectorIndex{}
	service := NewIndexerService(
		&mockNormaliserRegistry{normaliser: &stubNormaliser{}},
		&mockPipeline{},
		&failNthEmbedder{failOn: "sale price"},
		docStore,
		vectorIndex,
		nil,
	)
	ctx := context.Background()

	report, err := service.Index(ctx, settlementRaw())

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalChunks)
	assert.Equal(t, 1, report.ChunksIndexed)
	assert.Len(t, vectorIndex.added, 1)
}

func TestIndexerService_Index_WithLLMEnrichment(t *testing.T) {
	llm := &mockLLMService{
		extracted: map[string]any{
			"sale_price":       "$450,000",
			"property_address": "12 Oak Lane",
			"seller":           map[string]any{"net_proceeds": "$410,000"},
		},
		summary: "Settlement statement for 12 Oak Lane.",
	}
	service, docStore, _ := newTestIndexer(t, llm)
	ctx := context.Background()

	report, err := service.Index(ctx, settlementRaw())

	require.NoError(t, err)
	assert.True(t, report.HasStructuredData)
	assert.True(t, report.HasSummary)

	meta, err := docStore.GetMetadata(ctx, report.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeSettlement, meta.Type)
	assert.Equal(t, "mock-llm", meta.ExtractionModel)
	assert.Equal(t, []string{
		"Sale price: $450,000",
		"Net proceeds to seller: $410,000",
		"Property: 12 Oak Lane",
	}, meta.KeyFacts)

	doc, err := docStore.GetDocument(ctx, report.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Settlement statement for 12 Oak Lane.", doc.Summary)
}

func TestIndexerService_Index_ExtractionFailureIsNonFatal(t *testing.T) {
	llm := &mockLLMService{
		extractErr: errors.New("api down"),
		summary:    "A short summary.",
	}
	service, docStore, _ := newTestIndexer(t, llm)
	ctx := context.Background()

	report, err := service.Index(ctx, settlementRaw())

	require.NoError(t, err)
	assert.False(t, report.HasStructuredData)
	assert.True(t, report.HasSummary)

	_, err = docStore.GetMetadata(ctx, report.DocumentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexerService_Index_NoExtractionPromptTypes(t *testing.T) {
	llm := &mockLLMService{summary: "An appraisal summary."}
	service, docStore, _ := newTestIndexer(t, llm)
	ctx := context.Background()

	report, err := service.Index(ctx, &domain.RawDocument{
		Filename: "appraisal.txt",
		MIMEType: "text/plain",
		Content:  []byte("APPRAISAL REPORT: the appraised value of the property is $460,000."),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TypeAppraisal, report.Type)
	assert.False(t, report.HasStructuredData)
	assert.True(t, report.HasSummary)

	_, err = docStore.GetMetadata(ctx, report.DocumentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexerService_Index_GeneralSkipsExtraction(t *testing.T) {
	llm := &mockLLMService{
		extracted: map[string]any{"should": "not be used"},
		summary:   "General summary.",
	}
	service, docStore, _ := newTestIndexer(t, llm)
	ctx := context.Background()

	report, err := service.Index(ctx, &domain.RawDocument{
		Filename: "notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("Plain meeting notes with enough characters to clear the minimum length check."),
	})

	require.NoError(t, err)
	assert.False(t, report.HasStructuredData)
	assert.True(t, report.HasSummary)

	_, err = docStore.GetMetadata(ctx, report.DocumentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexerService_Reindex(t *testing.T) {
	service, docStore, vectorIndex := newTestIndexer(t, nil)
	ctx := context.Background()

	report, err := service.Index(ctx, settlementRaw())
	require.NoError(t, err)

	chunks, err := docStore.GetChunks(ctx, report.DocumentID)
	require.NoError(t, err)
	oldIDs := make([]string, len(chunks))
	for i, c := range chunks {
		oldIDs[i] = c.ID
	}

	report2, err := service.Reindex(ctx, report.DocumentID)

	require.NoError(t, err)
	assert.Equal(t, report.DocumentID, report2.DocumentID)
	assert.Equal(t, 2, report2.ChunksIndexed)
	assert.ElementsMatch(t, oldIDs, vectorIndex.deleted)

	doc, err := docStore.GetDocument(ctx, report.DocumentID)
	require.NoError(t, err)
	require.NotNil(t, doc.IndexedAt)
}

func TestIndexerService_Reindex_NotFound(t *testing.T) {
	service, _, _ := newTestIndexer(t, nil)
	ctx := context.Background()

	_, err := service.Reindex(ctx, "doc-99")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKeyFacts(t *testing.T) {
	facts := keyFacts(domain.TypeContract, map[string]any{
		"purchase_price": "$300,000",
		"closing_date":   "2026-06-15",
	})
	assert.Equal(t, []string{
		"Purchase price: $300,000",
		"Closing date: 2026-06-15",
	}, facts)

	facts = keyFacts(domain.TypeInspection, map[string]any{
		"overall_condition": "fair",
		"major_issues":      []any{"roof", "plumbing"},
	})
	assert.Equal(t, []string{
		"Overall condition: fair",
		"Major issues found: 2",
	}, facts)

	assert.Empty(t, keyFacts(domain.TypeSettlement, map[string]any{}))
}
