package driving

import (
	"context"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
)

// SearchService provides similarity search capabilities to external actors.
type SearchService interface {
	// Search finds the chunks most similar to the query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Ask answers a question about the indexed documents by retrieving
	// the most relevant chunks and passing them to the LLM.
	Ask(ctx context.Context, question string) (string, error)
}
