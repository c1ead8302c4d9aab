package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driving"
	"github.com/parcelworks/deedex-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// minExtractableText is the minimum content length worth indexing.
// Shorter extractions are almost always scanner noise or encrypted files.
const minExtractableText = 50

// NormaliserRegistry selects a normaliser for a MIME type.
type NormaliserRegistry interface {
	ForMIMEType(mimeType string) driven.Normaliser
}

// IndexerService runs the document indexing pipeline.
type IndexerService struct {
	normalisers      NormaliserRegistry
	pipeline         driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	llmService       driven.LLMService
}

// NewIndexerService creates a new indexer service.
// The llmService parameter is optional (can be nil): without it,
// indexing still stores chunks and vectors, but no structured
// extraction or summary is produced.
func NewIndexerService(
	normalisers NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	llmService driven.LLMService,
) *IndexerService {
	return &IndexerService{
		normalisers:      normalisers,
		pipeline:         pipeline,
		embeddingService: embeddingService,
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		llmService:       llmService,
	}
}

// Index processes one raw document end to end.
func (s *IndexerService) Index(ctx context.Context, raw *domain.RawDocument) (*driving.IndexReport, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, domain.ErrInvalidInput
	}

	logger.Section("Indexing")
	logger.Debug("File: %s (%s, %d bytes)", raw.Filename, raw.MIMEType, len(raw.Content))

	// Images cannot yield text.
	if strings.HasPrefix(raw.MIMEType, "image/") {
		return nil, fmt.Errorf("%w: image files cannot be indexed", domain.ErrUnsupportedType)
	}

	normaliser := s.normalisers.ForMIMEType(raw.MIMEType)
	if normaliser == nil {
		return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedType, raw.MIMEType)
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	doc := result.Document
	logger.Debug("Extracted %d characters", len(doc.Content))

	if len(doc.Content) < minExtractableText {
		return nil, fmt.Errorf("%w: the file may be scanned images or encrypted", domain.ErrNoExtractableText)
	}

	return s.indexDocument(ctx, &doc)
}

// Reindex re-runs the pipeline for a stored document.
func (s *IndexerService) Reindex(ctx context.Context, documentID string) (*driving.IndexReport, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	// Drop the previous vectors before rebuilding.
	if s.vectorIndex != nil {
		oldChunks, err := s.docStore.GetChunks(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("get chunks: %w", err)
		}
		for _, chunk := range oldChunks {
			if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
				logger.Warn("Failed to drop vector for chunk %s: %v", chunk.ID, err)
			}
		}
	}

	doc.IndexedAt = nil
	return s.indexDocument(ctx, doc)
}

// indexDocument runs classification, chunking, embedding, persistence
// and LLM enrichment over a document whose Content is populated.
func (s *IndexerService) indexDocument(ctx context.Context, doc *domain.Document) (*driving.IndexReport, error) {
	// Classify on text and filename, then derive the display category.
	doc.Type = domain.DetectDocumentType(doc.Content, doc.Filename)
	doc.Category = doc.Type.Category(doc.Category)
	logger.Debug("Detected type: %s (category %s)", doc.Type, doc.Category)

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	logger.Debug("Created %d chunks", len(chunks))

	// Embed chunk by chunk: one bad chunk should not sink the document.
	for i := range chunks {
		embedding, err := s.embeddingService.Embed(ctx, chunks[i].Content)
		if err != nil {
			logger.Warn("Embedding failed for chunk %d: %v", chunks[i].Position, err)
			continue
		}
		chunks[i].Embedding = embedding
	}

	report := &driving.IndexReport{
		DocumentID:  doc.ID,
		Type:        doc.Type,
		Category:    doc.Category,
		TotalChunks: len(chunks),
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	for i := range chunks {
		if chunks[i].Embedding == nil {
			continue
		}
		if s.vectorIndex != nil {
			if err := s.vectorIndex.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
				logger.Warn("Vector index add failed for chunk %d: %v", chunks[i].Position, err)
				continue
			}
		}
		report.ChunksIndexed++
	}

	// LLM enrichment is best-effort: its absence or failure never fails
	// the indexing run.
	if s.llmService != nil {
		report.HasStructuredData = s.extractMetadata(ctx, doc)
		report.HasSummary = s.summarise(ctx, doc)
	}

	now := time.Now().UTC()
	doc.IndexedAt = &now
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Indexed %s: %d/%d chunks", doc.Filename, report.ChunksIndexed, report.TotalChunks)
	return report, nil
}

// extractMetadata runs structured extraction for types that have an
// extraction prompt and stores the result. Returns true when data was
// stored.
func (s *IndexerService) extractMetadata(ctx context.Context, doc *domain.Document) bool {
	if doc.Type == domain.TypeGeneral {
		return false
	}

	extracted, err := s.llmService.ExtractStructured(ctx, doc.Content, doc.Type)
	if err != nil {
		if errors.Is(err, domain.ErrPromptNotDefined) {
			// Appraisal and disclosure documents are summary-only.
			logger.Debug("No extraction prompt for %s documents", doc.Type)
		} else {
			logger.Warn("Structured extraction failed: %v", err)
		}
		return false
	}

	meta := &domain.DocumentMetadata{
		DocumentID:      doc.ID,
		Type:            doc.Type,
		Extracted:       extracted,
		KeyFacts:        keyFacts(doc.Type, extracted),
		ExtractionModel: s.llmService.ModelName(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.docStore.SaveMetadata(ctx, meta); err != nil {
		logger.Warn("Failed to save extraction metadata: %v", err)
		return false
	}

	logger.Debug("Stored structured data with %d key facts", len(meta.KeyFacts))
	return true
}

// summarise generates and records the document summary. Returns true
// when a summary was stored.
func (s *IndexerService) summarise(ctx context.Context, doc *domain.Document) bool {
	summary, err := s.llmService.Summarise(ctx, doc.Content, doc.Filename, doc.Type)
	if err != nil {
		logger.Warn("Summary generation failed: %v", err)
		return false
	}
	doc.Summary = summary
	return summary != ""
}

// keyFacts derives short display strings from extracted data.
func keyFacts(docType domain.DocumentType, data map[string]any) []string {
	var facts []string

	switch docType {
	case domain.TypeSettlement:
		if v := stringValue(data, "sale_price"); v != "" {
			facts = append(facts, "Sale price: "+v)
		}
		if seller, ok := data["seller"].(map[string]any); ok {
			if v := stringValue(seller, "net_proceeds"); v != "" {
				facts = append(facts, "Net proceeds to seller: "+v)
			}
		}
		if v := stringValue(data, "property_address"); v != "" {
			facts = append(facts, "Property: "+v)
		}

	case domain.TypeInspection:
		if v := stringValue(data, "overall_condition"); v != "" {
			facts = append(facts, "Overall condition: "+v)
		}
		if issues, ok := data["major_issues"].([]any); ok && len(issues) > 0 {
			facts = append(facts, fmt.Sprintf("Major issues found: %d", len(issues)))
		}

	case domain.TypeContract:
		if v := stringValue(data, "purchase_price"); v != "" {
			facts = append(facts, "Purchase price: "+v)
		}
		if v := stringValue(data, "closing_date"); v != "" {
			facts = append(facts, "Closing date: "+v)
		}
	}

	return facts
}

// stringValue reads a non-empty string field from extracted data.
func stringValue(data map[string]any, key string) string {
	v, ok := data[key].(string)
	if !ok {
		return ""
	}
	return v
}
