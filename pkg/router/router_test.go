package router_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-go/pkg/llm"
	"github.com/notevault/notevault-go/pkg/memory"
	"github.com/notevault/notevault-go/pkg/router"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	return f.GenerateWithMessages(ctx, nil, opts...)
}

func (f *fakeLLM) GenerateWithMessages(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Close() error { return nil }

func TestRoute(t *testing.T) {
	cases := map[string]router.Decision{
		"note":      router.DecisionNote,
		"query":     router.DecisionQuery,
		"Note\n":    router.DecisionNote,
		"  QUERY  ": router.DecisionQuery,
		// Anything the model makes up routes to note, never dropped.
		"banana":                   router.DecisionNote,
		"this looks like a query.": router.DecisionNote,
		"":                         router.DecisionNote,
	}

	for reply, want := range cases {
		decision, err := router.New(&fakeLLM{reply: reply}).Route(context.Background(), "buy milk")
		require.NoError(t, err, "reply %q", reply)
		assert.Equal(t, want, decision, "reply %q", reply)
	}
}

func TestRouteServiceFailure(t *testing.T) {
	_, err := router.New(&fakeLLM{err: errors.New("timeout")}).Route(context.Background(), "buy milk")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrService))
}
