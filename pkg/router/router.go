// Package router classifies raw input as a new note or a question about
// existing notes.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/notevault/notevault-go/pkg/llm"
	"github.com/notevault/notevault-go/pkg/memory"
)

// Decision is the routing outcome for one piece of input.
type Decision string

const (
	// DecisionNote routes the input to the ingest pipeline.
	DecisionNote Decision = "note"

	// DecisionQuery routes the input to retrieval and answering.
	DecisionQuery Decision = "query"
)

const routerSystemPrompt = "You are a router. Decide if the user's input is a new note " +
	"or a query about existing notes. Answer with exactly one word: 'note' or 'query'."

// Router performs a single forced-choice classification per input. It
// keeps no state and never retries.
type Router struct {
	llm llm.Provider
}

// New creates a router over the given model.
func New(provider llm.Provider) *Router {
	return &Router{llm: provider}
}

// Route classifies text as note-intent or query-intent. Any reply other
// than "note" or "query" (after trimming and lowercasing) defaults to
// DecisionNote: a misrouted note is recoverable, silently discarding user
// input as an unanswerable query is not.
func (r *Router) Route(ctx context.Context, text string) (Decision, error) {
	messages := []llm.Message{
		{Role: "system", Content: routerSystemPrompt},
		{Role: "user", Content: text},
	}

	response, err := r.llm.GenerateWithMessages(ctx, messages)
	if err != nil {
		return "", memory.NewPipelineError("Route", fmt.Errorf("%w: %v", memory.ErrService, err))
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case string(DecisionQuery):
		return DecisionQuery, nil
	default:
		return DecisionNote, nil
	}
}
