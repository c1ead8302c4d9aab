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

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Search defaults, calibrated to the local feature-hash embedder.
const (
	// DefaultSearchLimit is the number of results returned when the
	// caller does not specify one.
	DefaultSearchLimit = 5

	// DefaultSearchThreshold drops weak matches. The local embedding
	// scheme produces low absolute similarities, so the floor is low.
	DefaultSearchThreshold = 0.1

	// askContextChunks is how many chunks feed a question answer.
	askContextChunks = 8
)

// SearchService provides similarity search over indexed chunks.
type SearchService struct {
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	promptStore      driven.PromptStore
}

// NewSearchService creates a new search service.
// The llmService parameter is optional (can be nil): without it, Ask is
// unavailable but Search still works.
func NewSearchService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
) *SearchService {
	return &SearchService{
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		llmService:       llmService,
	}
}

// SetPromptStore sets the prompt store used for the ask system prompt.
func (s *SearchService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Search embeds the query and returns the most similar chunks with
// their parent documents.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultSearchThreshold
	}
	logger.Debug("Limit: %d, Offset: %d, Threshold: %.2f", limit, opts.Offset, threshold)

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	// Over-fetch to survive the threshold, document filter and offset.
	internalLimit := (limit + opts.Offset) * 3
	if len(opts.DocumentIDs) > 0 {
		internalLimit *= 2
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, internalLimit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	results, err := s.hydrateResults(ctx, hits, query, threshold, opts.DocumentIDs)
	if err != nil {
		return nil, err
	}

	return applyPagination(results, opts.Offset, limit), nil
}

// Ask answers a question about the indexed documents by retrieving the
// most relevant chunks and passing them to the LLM.
func (s *SearchService) Ask(ctx context.Context, question string) (string, error) {
	if s.llmService == nil {
		return "", domain.ErrLLMUnavailable
	}

	results, err := s.Search(ctx, question, domain.SearchOptions{Limit: askContextChunks})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: no matching documents", domain.ErrNotFound)
	}

	var excerpts strings.Builder
	for _, r := range results {
		fmt.Fprintf(&excerpts, "[%s]\n%s\n\n", r.Document.Title, r.Chunk.Content)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.askSystemPrompt()},
		{Role: "user", Content: fmt.Sprintf("Excerpts:\n\n%sQuestion: %s", excerpts.String(), question)},
	}

	answer, err := s.llmService.Chat(ctx, messages, driven.ChatOptions{MaxTokens: 1024})
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

// askSystemPrompt loads the Q&A system prompt, with a terse fallback
// when no prompt store is wired.
func (s *SearchService) askSystemPrompt() string {
	if s.promptStore != nil {
		if prompt, err := s.promptStore.Load(driven.PromptAskSystem); err == nil {
			return prompt
		}
	}
	return "Answer questions using only the provided document excerpts. Cite document titles."
}

// hydrateResults resolves vector hits into full search results.
func (s *SearchService) hydrateResults(
	ctx context.Context,
	hits []driven.VectorHit,
	query string,
	threshold float64,
	documentIDs []string,
) ([]domain.SearchResult, error) {
	var docFilter map[string]bool
	if len(documentIDs) > 0 {
		docFilter = make(map[string]bool, len(documentIDs))
		for _, id := range documentIDs {
			docFilter[id] = true
		}
	}

	results := make([]domain.SearchResult, 0, len(hits))

	for _, hit := range hits {
		if hit.Similarity < threshold {
			// Hits are ordered by similarity, nothing below passes.
			break
		}

		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Chunk was deleted, skip it
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		if docFilter != nil && !docFilter[chunk.DocumentID] {
			continue
		}

		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Document was deleted, skip it
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}

		results = append(results, domain.SearchResult{
			Document:   *doc,
			Chunk:      *chunk,
			Score:      hit.Similarity,
			Highlights: generateHighlights(chunk.Content, query),
		})
	}

	return results, nil
}

// generateHighlights extracts up to three sentences containing query terms.
func generateHighlights(content, query string) []string {
	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return nil
	}

	sentences := splitContentSentences(content)

	var highlights []string

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		for _, term := range queryTerms {
			if strings.Contains(sentenceLower, term) {
				highlight := sentence
				if len(highlight) > 200 {
					highlight = highlight[:200] + "..."
				}
				highlights = append(highlights, highlight)
				break
			}
		}

		if len(highlights) >= 3 {
			break // Limit to 3 highlights
		}
	}

	return highlights
}

// splitContentSentences splits content into sentences.
func splitContentSentences(content string) []string {
	// Simple sentence splitting by common terminators
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	// Don't forget the last sentence
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// applyPagination applies offset and limit to results.
func applyPagination(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}

	end := offset + limit
	if end > len(results) {
		end = len(results)
	}

	return results[offset:end]
}
