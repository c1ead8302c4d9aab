// Package chunker provides a paragraph-aware text chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 2000

// DefaultChunkOverlap is the default number of overlapping characters
// when a single sentence has to be hard-sliced into windows.
const DefaultChunkOverlap = 200

// DefaultMaxChunks is the default cap on chunks per document.
const DefaultMaxChunks = 100

// DefaultMinChunkLen is the default minimum retained chunk length.
// Chunks at or below this length are dropped in the final filter.
const DefaultMinChunkLen = 50

// paragraphPattern matches paragraph boundaries: two or more newlines.
var paragraphPattern = regexp.MustCompile(`\n\n+`)

// Processor splits document content into paragraph-aware chunks.
// Paragraphs are greedily merged up to the chunk size; oversized
// paragraphs fall back to sentence splitting, and oversized sentences
// to overlapping fixed windows. It implements the PostProcessor
// interface.
type Processor struct {
	chunkSize int
	overlap   int
	maxChunks int
	minLen    int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the window overlap in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMaxChunks sets the cap on chunks per document.
func WithMaxChunks(max int) Option {
	return func(p *Processor) {
		if max > 0 {
			p.maxChunks = max
		}
	}
}

// WithMinChunkLen sets the minimum retained chunk length.
func WithMinChunkLen(min int) Option {
	return func(p *Processor) {
		if min >= 0 {
			p.minLen = min
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		maxChunks: DefaultMaxChunks,
		minLen:    DefaultMinChunkLen,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	pieces := p.Chunk(doc.Content)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    piece,
			Position:   i,
			Metadata:   make(map[string]any),
		})
	}

	return chunks, nil
}

// Chunk splits text into chunk strings in document order.
// Identical input always yields an identical sequence.
func (p *Processor) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	paragraphs := paragraphPattern.Split(text, -1)

	current := ""

	for _, para := range paragraphs {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}

		// Account for the joining blank line.
		if len(current)+len(trimmed)+2 <= p.chunkSize {
			if current != "" {
				current += "\n\n"
			}
			current += trimmed
			continue
		}

		if strings.TrimSpace(current) != "" {
			chunks = append(chunks, strings.TrimSpace(current))
		}

		if len(trimmed) > p.chunkSize {
			chunks, current = p.chunkOversizedParagraph(chunks, trimmed)
		} else {
			current = trimmed
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return p.finalise(chunks)
}

// chunkOversizedParagraph splits a paragraph larger than the chunk size
// by sentence boundaries, hard-slicing any sentence that is itself too
// large. It returns the updated chunk list and the carry-over
// accumulator for the next paragraph.
func (p *Processor) chunkOversizedParagraph(chunks []string, para string) ([]string, string) {
	sentences := splitSentences(para)
	sentenceChunk := ""

	for _, sentence := range sentences {
		if len(sentenceChunk)+len(sentence)+1 <= p.chunkSize {
			if sentenceChunk != "" {
				sentenceChunk += " "
			}
			sentenceChunk += sentence
			continue
		}

		if strings.TrimSpace(sentenceChunk) != "" {
			chunks = append(chunks, strings.TrimSpace(sentenceChunk))
		}

		if len(sentence) > p.chunkSize {
			// Force split into overlapping windows.
			step := p.chunkSize - p.overlap
			for i := 0; i < len(sentence); i += step {
				end := i + p.chunkSize
				if end > len(sentence) {
					end = len(sentence)
				}
				chunks = append(chunks, strings.TrimSpace(sentence[i:end]))
			}
			sentenceChunk = ""
		} else {
			sentenceChunk = sentence
		}
	}

	if strings.TrimSpace(sentenceChunk) != "" {
		return chunks, sentenceChunk
	}
	return chunks, ""
}

// finalise drops undersized chunks and truncates to the cap.
func (p *Processor) finalise(chunks []string) []string {
	kept := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(c) > p.minLen {
			kept = append(kept, c)
		}
	}
	if len(kept) > p.maxChunks {
		kept = kept[:p.maxChunks]
	}
	return kept
}

// splitSentences splits text after sentence-ending punctuation followed
// by whitespace. The punctuation stays with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		if !isSpace(text[i]) {
			continue
		}
		if i == 0 || !isSentenceEnd(text[i-1]) {
			continue
		}

		sentences = append(sentences, text[start:i])

		// Skip the whole whitespace run.
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		start = i
		i--
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	return sentences
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
