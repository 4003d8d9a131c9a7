// Package chromem implements the semantic index on chromem-go, an
// embedded, pure-Go vector database persisted to a local directory.
package chromem

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/notevault/notevault-go/pkg/embedder"
	"github.com/notevault/notevault-go/pkg/index"
)

const defaultCollection = "note_memories"

// Index is a chromem-go backed index.SemanticIndex.
type Index struct {
	db  *chromem.DB
	col *chromem.Collection
}

// Config configures the chromem index.
type Config struct {
	// Path is the directory the database persists to.
	Path string

	// Collection is the collection name. Empty uses "note_memories".
	Collection string
}

// New creates a persistent chromem index. Query and document embeddings
// are produced by the supplied embedder.
func New(cfg *Config, emb embedder.Provider) (*Index, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("chromem: open database: %w", err)
	}

	name := cfg.Collection
	if name == "" {
		name = defaultCollection
	}

	col, err := db.GetOrCreateCollection(name, nil, embeddingFunc(emb))
	if err != nil {
		return nil, fmt.Errorf("chromem: open collection: %w", err)
	}

	return &Index{db: db, col: col}, nil
}

// embeddingFunc adapts an embedder.Provider to chromem's callback shape.
func embeddingFunc(emb embedder.Provider) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		v, err := emb.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = float32(x)
		}
		return out, nil
	}
}

// Insert adds texts with metadata and returns the generated document IDs.
func (ix *Index) Insert(ctx context.Context, texts []string, metadatas []map[string]string) ([]string, error) {
	ids := make([]string, 0, len(texts))
	for i, text := range texts {
		var meta map[string]string
		if i < len(metadatas) {
			meta = metadatas[i]
		}

		id := uuid.NewString()
		doc := chromem.Document{
			ID:       id,
			Content:  text,
			Metadata: meta,
		}
		if err := ix.col.AddDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("chromem: add document: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Search returns up to k hits ordered by descending similarity.
// chromem rejects result counts larger than the collection, so k is
// clamped; an empty collection yields no hits.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]index.Hit, error) {
	count := ix.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := ix.col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	hits := make([]index.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, index.Hit{
			Text:     r.Content,
			Metadata: r.Metadata,
			Score:    float64(r.Similarity),
		})
	}
	return hits, nil
}

// Flush is a no-op; chromem persists each document as it is added.
func (ix *Index) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op; chromem keeps no open handles between operations.
func (ix *Index) Close() error {
	return nil
}
