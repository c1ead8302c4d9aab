package domain

import "time"

// Document represents an indexed real-estate document.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, upload key, etc).
	URI string

	// Filename is the original file name as uploaded.
	// Classification uses it alongside the extracted text.
	Filename string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after extraction.
	// This is the complete document text before chunking.
	Content string

	// Type is the detected document category.
	Type DocumentType

	// Category is the display category recorded for the document
	// (e.g. "closing" for settlement statements).
	Category string

	// Summary is the LLM-generated summary, empty until indexing
	// produces one.
	Summary string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time

	// IndexedAt is when indexing last completed, nil if never indexed.
	IndexedAt *time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// DocumentMetadata holds structured data extracted from a document by
// the LLM, keyed by document. Only types with an extraction prompt
// (settlement, inspection, contract) ever produce one.
type DocumentMetadata struct {
	// DocumentID links to the Document.
	DocumentID string

	// Type is the document category the extraction was run for.
	Type DocumentType

	// Extracted is the structured data recovered from the LLM reply.
	Extracted map[string]any

	// KeyFacts are short display strings derived from Extracted.
	KeyFacts []string

	// ExtractionModel records which model produced the data.
	ExtractionModel string

	// CreatedAt is when the extraction was stored.
	CreatedAt time.Time
}
