package domain

// SearchOptions configures a similarity search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// Threshold drops results whose similarity falls below it.
	// Zero means use the service default.
	Threshold float64

	// DocumentIDs filters results to specific documents.
	DocumentIDs []string
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Chunk is the specific chunk that matched.
	Chunk Chunk

	// Score is the cosine similarity of the chunk to the query.
	Score float64

	// Highlights contains snippets with matched terms.
	Highlights []string
}
