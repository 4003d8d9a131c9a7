package logstore_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-go/pkg/logstore"
	"github.com/notevault/notevault-go/pkg/memory"
)

func testRecord(n int) *memory.Record {
	return &memory.Record{
		ID:        fmt.Sprintf("mem-%03d", n),
		Timestamp: time.Date(2025, 6, 1, 9, 0, n, 0, time.UTC),
		RawText:   fmt.Sprintf("note number %d", n),
		Summary:   fmt.Sprintf("Note number %d.", n),
		Category:  "misc",
		Source:    "text",
		Language:  "en",
	}
}

func TestAppendAndReadAll(t *testing.T) {
	store, err := logstore.New(filepath.Join(t.TempDir(), "memories.jsonl"))
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, store.Append(testRecord(i)))
	}

	records, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, n)
	for i, record := range records {
		assert.Equal(t, testRecord(i), record, "records must come back in append order")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	store, err := logstore.New(filepath.Join(t.TempDir(), "never-created.jsonl"))
	require.NoError(t, err)

	records, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.jsonl")
	store, err := logstore.New(path)
	require.NoError(t, err)

	require.NoError(t, store.Append(testRecord(1)))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.Append(testRecord(2)))

	records, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "mem-001", records[0].ID)
	assert.Equal(t, "mem-002", records[1].ID)
}

func TestReadAllReportsOffendingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.jsonl")
	store, err := logstore.New(path)
	require.NoError(t, err)

	require.NoError(t, store.Append(testRecord(1)))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{broken json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = store.ReadAll()
	require.Error(t, err)

	var decodeErr *memory.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 2, decodeErr.Line)
}

func TestSkipCorruptPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.jsonl")
	store, err := logstore.New(path, logstore.WithSkipCorrupt())
	require.NoError(t, err)

	require.NoError(t, store.Append(testRecord(1)))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{broken json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.Append(testRecord(2)))

	records, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "corrupt line is skipped, reading continues")
	assert.Equal(t, "mem-001", records[0].ID)
	assert.Equal(t, "mem-002", records[1].ID)
}

func TestIterateIsRestartable(t *testing.T) {
	store, err := logstore.New(filepath.Join(t.TempDir(), "memories.jsonl"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(testRecord(i)))
	}

	// Two independent passes both see the full log from the start.
	for pass := 0; pass < 2; pass++ {
		it, err := store.Iterate()
		require.NoError(t, err)

		var ids []string
		for it.Next() {
			ids = append(ids, it.Record().ID)
		}
		require.NoError(t, it.Err())
		require.NoError(t, it.Close())

		assert.Equal(t, []string{"mem-000", "mem-001", "mem-002"}, ids)
	}
}

func TestAppendFailureIsStorageError(t *testing.T) {
	dir := t.TempDir()
	// A directory at the log path makes the open fail.
	path := filepath.Join(dir, "memories.jsonl")
	require.NoError(t, os.Mkdir(path, 0o755))

	store, err := logstore.New(path)
	require.NoError(t, err)

	err = store.Append(testRecord(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrStorage))
}
