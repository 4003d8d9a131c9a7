// Package retrieval implements retrieval-augmented answering: fetching
// the most similar memories for a query and composing them into a
// grounded natural-language answer.
package retrieval

import (
	"context"
	"fmt"

	"github.com/notevault/notevault-go/pkg/index"
	"github.com/notevault/notevault-go/pkg/memory"
)

// DefaultTopK is the number of memories retrieved when the caller does
// not specify one.
const DefaultTopK = 5

// Retriever fetches the top-k most similar memories from the semantic
// index. It performs no re-ranking or filtering of its own.
type Retriever struct {
	index index.SemanticIndex
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(idx index.SemanticIndex) *Retriever {
	return &Retriever{index: idx}
}

// Retrieve returns up to k hits ordered by descending relevance as judged
// by the index. Non-positive k uses DefaultTopK. An empty index yields an
// empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]index.Hit, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	hits, err := r.index.Search(ctx, query, k)
	if err != nil {
		return nil, memory.NewPipelineError("Retrieve", fmt.Errorf("%w: %v", memory.ErrService, err))
	}
	return hits, nil
}
