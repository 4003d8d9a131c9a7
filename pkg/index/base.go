// Package index defines the semantic index contract: a similarity-search
// store over memory summaries.
//
// The index is a secondary, rebuildable structure. The append-only log
// store remains the source of truth; anything the index loses can be
// reinserted from the log.
package index

import "context"

// Hit is a single similarity-search result.
type Hit struct {
	// Text is the indexed summary text.
	Text string

	// Metadata is the flat string metadata stored alongside the text.
	Metadata map[string]string

	// Score is the similarity score as judged by the index. Higher is
	// more relevant.
	Score float64
}

// SemanticIndex is the contract every index backend must satisfy.
type SemanticIndex interface {
	// Insert adds texts with their metadata and returns one index
	// identifier per text, in input order.
	Insert(ctx context.Context, texts []string, metadatas []map[string]string) ([]string, error)

	// Search returns up to k hits for the query, ordered by descending
	// relevance. An empty index yields an empty result, not an error.
	Search(ctx context.Context, query string, k int) ([]Hit, error)

	// Flush makes previous insertions durable. Backends that persist on
	// every insert implement this as a no-op.
	Flush(ctx context.Context) error

	// Close releases any resources held by the index.
	Close() error
}
