package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-go/pkg/memory"
)

func TestRecordRoundTrip(t *testing.T) {
	record := &memory.Record{
		ID:          "mem-001",
		Timestamp:   time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		RawText:     "Buy milk tomorrow morning",
		Summary:     "Buy milk tomorrow morning.",
		Category:    "shopping",
		Tags:        []string{"groceries", "reminder"},
		Entities:    []string{"milk"},
		Source:      "text",
		Language:    "en",
		EmbeddingID: "emb-123",
	}

	data, err := record.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n", "encoded record must be a single line")

	decoded, err := memory.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestRecordRoundTripEmptyLists(t *testing.T) {
	record := &memory.Record{
		ID:        "mem-002",
		Timestamp: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		RawText:   "raw",
		Summary:   "summary",
		Category:  "misc",
		Source:    "text",
		Language:  "en",
	}

	data, err := record.Encode()
	require.NoError(t, err)

	decoded, err := memory.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
	assert.Empty(t, decoded.EmbeddingID)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := memory.Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestRecordMetadata(t *testing.T) {
	record := &memory.Record{
		ID:        "mem-003",
		Timestamp: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		RawText:   "Met John and Sarah at the cafe",
		Summary:   "Met John and Sarah at the cafe.",
		Category:  "social",
		Tags:      []string{"meeting"},
		Entities:  []string{"John", "Sarah"},
		Source:    "text",
		Language:  "en",
	}

	meta := record.Metadata()
	assert.Equal(t, "mem-003", meta["id"])
	assert.Equal(t, "2025-06-01T09:30:00Z", meta["timestamp"])
	assert.Equal(t, "social", meta["category"])
	assert.Equal(t, "meeting", meta["tags"])
	assert.Equal(t, "John, Sarah", meta["entities"])
	assert.Equal(t, "Met John and Sarah at the cafe", meta["raw_text"])
}

func TestPipelineError(t *testing.T) {
	original := errors.New("disk full")
	err := memory.NewPipelineError("Ingest", original)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ingest")
	assert.Contains(t, err.Error(), "disk full")

	var target *memory.PipelineError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "Ingest", target.Op)
	assert.Equal(t, original, errors.Unwrap(err))
}

func TestPipelineErrorNil(t *testing.T) {
	assert.NoError(t, memory.NewPipelineError("Ingest", nil))
}

func TestPipelineErrorPreservesSentinel(t *testing.T) {
	err := memory.NewPipelineError("Append", memory.ErrStorage)
	assert.True(t, errors.Is(err, memory.ErrStorage))
	assert.False(t, errors.Is(err, memory.ErrService))
}

func TestDecodeError(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := &memory.DecodeError{Line: 7, Err: inner}

	assert.Contains(t, err.Error(), "line 7")
	assert.Equal(t, inner, errors.Unwrap(err))
}
