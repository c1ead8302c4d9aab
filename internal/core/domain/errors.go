package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a file type that cannot be indexed
	// (e.g. images, which would require OCR).
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNoExtractableText indicates extraction produced too little text
	// to index. The file may be scanned images or encrypted.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (extraction, summaries, ask) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Similarity search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrPromptNotDefined indicates no prompt template exists for the
	// requested name. Extraction prompts are intentionally undefined for
	// appraisal, disclosure and general documents.
	ErrPromptNotDefined = errors.New("prompt not defined")
)
