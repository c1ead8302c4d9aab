package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "deedex-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument creates a test document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, docID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:        docID,
		URI:       "file:///test/" + docID,
		Filename:  docID + ".txt",
		Title:     "Test Document " + docID,
		Content:   "Test content for " + docID,
		Type:      domain.TypeGeneral,
		Metadata:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.SaveDocument(ctx, doc))
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deedex-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrations again against the applied schema.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	indexedAt := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:        "doc-1",
		URI:       "file:///deals/statement.pdf",
		Filename:  "statement.pdf",
		Title:     "statement",
		Content:   "Settlement statement for 12 Oak Lane.",
		Type:      domain.TypeSettlement,
		Category:  "closing",
		Summary:   "Final charges for the Oak Lane purchase.",
		Metadata:  map[string]any{"mime_type": "application/pdf"},
		IndexedAt: &indexedAt,
	}

	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.URI, got.URI)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, domain.TypeSettlement, got.Type)
	assert.Equal(t, "closing", got.Category)
	assert.Equal(t, doc.Summary, got.Summary)
	assert.Equal(t, "application/pdf", got.Metadata["mime_type"])
	require.NotNil(t, got.IndexedAt)
	assert.WithinDuration(t, indexedAt, *got.IndexedAt, time.Second)
}

func TestSaveDocument_Upsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	doc.Summary = "updated summary"
	doc.Type = domain.TypeContract
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "updated summary", got.Summary)
	assert.Equal(t, domain.TypeContract, got.Type)
}

func TestSaveDocument_InvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveDocument(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveDocument(ctx, &domain.Document{}), domain.ErrInvalidInput)
}

func TestGetDocument_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveChunks_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{
			ID:         "chunk-1",
			DocumentID: "doc-1",
			Content:    "First chunk of the settlement statement.",
			Position:   0,
			Embedding:  []float32{0.1, 0.2, 0.3},
			Metadata:   map[string]any{"page": float64(1)},
		},
		{
			ID:         "chunk-2",
			DocumentID: "doc-1",
			Content:    "Second chunk with lender credits.",
			Position:   1,
			Embedding:  []float32{0.4, 0.5, 0.6},
		},
	}

	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "chunk-1", got[0].ID)
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[0].Embedding)
	assert.Equal(t, float64(1), got[0].Metadata["page"])
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, got[1].Embedding)
}

func TestSaveChunks_ReplacesExisting(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")

	first := []domain.Chunk{
		{ID: "old-1", DocumentID: "doc-1", Content: "old", Position: 0},
		{ID: "old-2", DocumentID: "doc-1", Content: "old", Position: 1},
	}
	require.NoError(t, store.SaveChunks(ctx, first))

	second := []domain.Chunk{
		{ID: "new-1", DocumentID: "doc-1", Content: "new", Position: 0},
	}
	require.NoError(t, store.SaveChunks(ctx, second))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ID)
}

func TestGetChunk(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "content", Position: 0},
	}))

	chunk, err := store.GetChunk(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", chunk.DocumentID)

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveMetadata_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")

	meta := &domain.DocumentMetadata{
		DocumentID: "doc-1",
		Type:       domain.TypeSettlement,
		Extracted: map[string]any{
			"purchase_price": "$450,000",
			"closing_date":   "2026-03-15",
		},
		KeyFacts:        []string{"Price: $450,000", "Closing: 2026-03-15"},
		ExtractionModel: "claude-3-haiku-20240307",
	}

	require.NoError(t, store.SaveMetadata(ctx, meta))

	got, err := store.GetMetadata(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeSettlement, got.Type)
	assert.Equal(t, "$450,000", got.Extracted["purchase_price"])
	assert.Equal(t, meta.KeyFacts, got.KeyFacts)
	assert.Equal(t, meta.ExtractionModel, got.ExtractionModel)
}

func TestGetMetadata_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestDocument(t, store, "doc-1")

	_, err := store.GetMetadata(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument_CascadesChunksAndMetadata(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "content", Position: 0},
	}))
	require.NoError(t, store.SaveMetadata(ctx, &domain.DocumentMetadata{
		DocumentID: "doc-1",
		Type:       domain.TypeGeneral,
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	_, err = store.GetMetadata(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	createTestDocument(t, store, "doc-1")
	createTestDocument(t, store, "doc-2")

	docs, err = store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestAllChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")
	createTestDocument(t, store, "doc-2")

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "a-1", DocumentID: "doc-1", Content: "one", Position: 0, Embedding: []float32{1}},
		{ID: "b-1", DocumentID: "doc-2", Content: "two", Position: 0, Embedding: []float32{2}},
	}))

	chunks, err := store.AllChunks(ctx)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{0.5, -1.25, 3.75, 0}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
