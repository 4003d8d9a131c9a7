package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-go/pkg/extract"
	"github.com/notevault/notevault-go/pkg/llm"
	"github.com/notevault/notevault-go/pkg/memory"
)

// fakeLLM returns canned replies so extraction is deterministic.
type fakeLLM struct {
	reply string
	err   error

	// lastMessages captures the request for prompt assertions.
	lastMessages []llm.Message
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	return f.GenerateWithMessages(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *fakeLLM) GenerateWithMessages(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (string, error) {
	f.lastMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Close() error { return nil }

func TestExtract(t *testing.T) {
	provider := &fakeLLM{
		reply: `{"summary": "Buy milk tomorrow morning.", "category": "shopping", "tags": ["groceries"], "entities": ["milk"]}`,
	}

	record, err := extract.New(provider).Extract(context.Background(), "Buy milk tomorrow morning", "text", "en")
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.False(t, record.Timestamp.IsZero())
	assert.Equal(t, "Buy milk tomorrow morning", record.RawText)
	assert.Equal(t, "Buy milk tomorrow morning.", record.Summary)
	assert.Equal(t, "shopping", record.Category)
	assert.Equal(t, []string{"groceries"}, record.Tags)
	assert.Equal(t, []string{"milk"}, record.Entities)
	assert.Equal(t, "text", record.Source)
	assert.Equal(t, "en", record.Language)
	assert.Empty(t, record.EmbeddingID, "extractor never sets the embedding id")

	require.Len(t, provider.lastMessages, 2)
	assert.Equal(t, "system", provider.lastMessages[0].Role)
	assert.Contains(t, provider.lastMessages[1].Content, "Buy milk tomorrow morning")
}

func TestExtractStripsCodeFences(t *testing.T) {
	provider := &fakeLLM{
		reply: "```json\n{\"summary\": \"S.\", \"category\": \"misc\", \"tags\": [], \"entities\": []}\n```",
	}

	record, err := extract.New(provider).Extract(context.Background(), "some note", "text", "en")
	require.NoError(t, err)
	assert.Equal(t, "S.", record.Summary)
	assert.Equal(t, "misc", record.Category)
}

func TestExtractUniqueIDs(t *testing.T) {
	provider := &fakeLLM{
		reply: `{"summary": "S.", "category": "misc", "tags": [], "entities": []}`,
	}
	extractor := extract.New(provider)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		record, err := extractor.Extract(context.Background(), "some note", "text", "en")
		require.NoError(t, err)
		assert.False(t, seen[record.ID], "record IDs must be unique")
		seen[record.ID] = true
	}
}

func TestExtractMalformedReply(t *testing.T) {
	for name, reply := range map[string]string{
		"not json":         "I cannot help with that.",
		"missing summary":  `{"category": "misc", "tags": [], "entities": []}`,
		"missing category": `{"summary": "S.", "tags": [], "entities": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			provider := &fakeLLM{reply: reply}
			_, err := extract.New(provider).Extract(context.Background(), "some note", "text", "en")
			require.Error(t, err)
			assert.True(t, errors.Is(err, memory.ErrExtraction))
		})
	}
}

func TestExtractServiceFailure(t *testing.T) {
	provider := &fakeLLM{err: errors.New("connection refused")}
	_, err := extract.New(provider).Extract(context.Background(), "some note", "text", "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrService))
}

func TestExtractEmptyInput(t *testing.T) {
	provider := &fakeLLM{}
	_, err := extract.New(provider).Extract(context.Background(), "   ", "text", "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrInvalidInput))
	assert.Nil(t, provider.lastMessages, "no model call for empty input")
}
