// Package embedder defines the text embedding contract used by the
// semantic index backends.
package embedder

import "context"

// Provider converts text into vector embeddings for similarity search.
type Provider interface {
	// Embed converts a single text into an embedding vector.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch converts multiple texts in one request. Results are
	// returned in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the embedding vector dimension.
	Dimensions() int

	// Close releases any resources held by the provider.
	Close() error
}
