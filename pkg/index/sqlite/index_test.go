package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-go/pkg/index/sqlite"
)

// mockEmbedder maps known texts to fixed vectors so similarity ordering
// is deterministic. Unknown texts get an orthogonal filler vector.
type mockEmbedder struct {
	vectors map[string][]float64
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 1}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }
func (m *mockEmbedder) Close() error    { return nil }

func newTestIndex(t *testing.T) *sqlite.Index {
	t.Helper()

	emb := &mockEmbedder{vectors: map[string][]float64{
		"Buy milk tomorrow morning.":               {1, 0, 0},
		"Dentist appointment next Tuesday at 3pm.": {0.5, 0.5, 0},
		"Met Sarah for coffee.":                    {0, 1, 0},
		"what do I need to buy?":                   {1, 0.1, 0},
	}}

	ix, err := sqlite.New(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "memories.db"),
	}, emb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func seedIndex(t *testing.T, ix *sqlite.Index) []string {
	t.Helper()

	texts := []string{
		"Buy milk tomorrow morning.",
		"Dentist appointment next Tuesday at 3pm.",
		"Met Sarah for coffee.",
	}
	metadatas := []map[string]string{
		{"id": "mem-001", "category": "shopping"},
		{"id": "mem-002", "category": "health"},
		{"id": "mem-003", "category": "social"},
	}

	ids, err := ix.Insert(context.Background(), texts, metadatas)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	return ids
}

func TestInsertGeneratesUniqueIDs(t *testing.T) {
	ix := newTestIndex(t)
	ids := seedIndex(t, ix)

	seen := map[string]bool{}
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	ix := newTestIndex(t)
	seedIndex(t, ix)

	hits, err := ix.Search(context.Background(), "what do I need to buy?", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "Buy milk tomorrow morning.", hits[0].Text)
	assert.Equal(t, "shopping", hits[0].Metadata["category"])
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score, "hits must be in descending score order")
	}
}

func TestSearchTruncatesToK(t *testing.T) {
	ix := newTestIndex(t)
	seedIndex(t, ix)

	hits, err := ix.Search(context.Background(), "what do I need to buy?", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := newTestIndex(t)

	hits, err := ix.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestInsertNothing(t *testing.T) {
	ix := newTestIndex(t)

	ids, err := ix.Insert(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memories.db")
	emb := &mockEmbedder{vectors: map[string][]float64{
		"Buy milk tomorrow morning.": {1, 0, 0},
	}}

	ix, err := sqlite.New(&sqlite.Config{DBPath: path}, emb)
	require.NoError(t, err)
	_, err = ix.Insert(context.Background(), []string{"Buy milk tomorrow morning."},
		[]map[string]string{{"id": "mem-001"}})
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	reopened, err := sqlite.New(&sqlite.Config{DBPath: path}, emb)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	hits, err := reopened.Search(context.Background(), "Buy milk tomorrow morning.", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "mem-001", hits[0].Metadata["id"])
}
