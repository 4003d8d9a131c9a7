// Package sqlite implements the semantic index on a local SQLite file.
//
// SQLite has no native vector operations, so embeddings are stored as JSON
// text and similarity is computed in memory with a full scan. That is fine
// for a personal note log; the dataset is small by construction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/bwmarrin/snowflake"
	_ "github.com/mattn/go-sqlite3"

	"github.com/notevault/notevault-go/pkg/embedder"
	"github.com/notevault/notevault-go/pkg/index"
)

const defaultTable = "note_memories"

// Index is a SQLite-backed index.SemanticIndex.
type Index struct {
	db    *sql.DB
	emb   embedder.Provider
	table string
	node  *snowflake.Node
}

// Config configures the SQLite index.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// Table is the table name. Empty uses "note_memories".
	Table string
}

// New creates a SQLite index. Query and document embeddings are produced
// by the supplied embedder.
func New(cfg *Config, emb embedder.Provider) (*Index, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = defaultTable
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("sqlite: id generator: %w", err)
	}

	ix := &Index{db: db, emb: emb, table: table, node: node}
	if err := ix.initTable(context.Background()); err != nil {
		return nil, err
	}
	return ix, nil
}

func (ix *Index) initTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			summary TEXT NOT NULL,
			metadata TEXT,
			embedding TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`, ix.table)

	if _, err := ix.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sqlite: init table: %w", err)
	}
	return nil
}

// Insert embeds the texts, stores them with their metadata, and returns
// the generated row IDs.
func (ix *Index) Insert(ctx context.Context, texts []string, metadatas []map[string]string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := ix.emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("sqlite: embed: %w", err)
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, summary, metadata, embedding) VALUES (?, ?, ?, ?)
	`, ix.table)

	ids := make([]string, 0, len(texts))
	for i, text := range texts {
		var meta map[string]string
		if i < len(metadatas) {
			meta = metadatas[i]
		}

		metadataJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("sqlite: marshal metadata: %w", err)
		}
		embeddingJSON, err := json.Marshal(embeddings[i])
		if err != nil {
			return nil, fmt.Errorf("sqlite: marshal embedding: %w", err)
		}

		id := ix.node.Generate()
		if _, err := tx.ExecContext(ctx, query, id.Int64(), text, string(metadataJSON), string(embeddingJSON)); err != nil {
			return nil, fmt.Errorf("sqlite: insert: %w", err)
		}
		ids = append(ids, id.String())
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return ids, nil
}

// Search embeds the query, scans all rows, and returns the top k by
// cosine similarity.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]index.Hit, error) {
	queryEmbedding, err := ix.emb.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: embed query: %w", err)
	}

	rows, err := ix.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT summary, metadata, embedding FROM %s ORDER BY id
	`, ix.table))
	if err != nil {
		return nil, fmt.Errorf("sqlite: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []index.Hit
	for rows.Next() {
		var summary, metadataStr, embeddingStr string
		if err := rows.Scan(&summary, &metadataStr, &embeddingStr); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}

		var embedding []float64
		if err := json.Unmarshal([]byte(embeddingStr), &embedding); err != nil {
			return nil, fmt.Errorf("sqlite: parse embedding: %w", err)
		}

		var metadata map[string]string
		if metadataStr != "" {
			if err := json.Unmarshal([]byte(metadataStr), &metadata); err != nil {
				return nil, fmt.Errorf("sqlite: parse metadata: %w", err)
			}
		}

		hits = append(hits, index.Hit{
			Text:     summary,
			Metadata: metadata,
			Score:    cosineSimilarity(queryEmbedding, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: search: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Flush is a no-op; every insert commits its own transaction.
func (ix *Index) Flush(ctx context.Context) error {
	return nil
}

// Close closes the database connection.
func (ix *Index) Close() error {
	if ix.db != nil {
		return ix.db.Close()
	}
	return nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
