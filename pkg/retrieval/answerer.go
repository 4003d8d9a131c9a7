package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/notevault/notevault-go/pkg/index"
	"github.com/notevault/notevault-go/pkg/llm"
	"github.com/notevault/notevault-go/pkg/memory"
)

const answerSystemPrompt = "You answer user questions using the provided memory context. " +
	"If the answer is not in the memories, say you couldn't find it."

// emptyContext is the fixed placeholder used when no memories matched, so
// the model states the miss instead of inventing an answer.
const emptyContext = "No relevant memories found."

// Answerer composes retrieved memories into a grounded answer via a single
// language model request.
type Answerer struct {
	llm llm.Provider
}

// NewAnswerer creates an answerer over the given model.
func NewAnswerer(provider llm.Provider) *Answerer {
	return &Answerer{llm: provider}
}

// Answer renders the hits as a memory context and asks the model to answer
// strictly from it. The reply is returned trimmed. Fails with
// memory.ErrService when the model call fails; never retries.
func (a *Answerer) Answer(ctx context.Context, query string, hits []index.Hit) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Question: %s\n\nMemories:\n%s\n\nAnswer:", query, renderContext(hits))},
	}

	response, err := a.llm.GenerateWithMessages(ctx, messages)
	if err != nil {
		return "", memory.NewPipelineError("Answer", fmt.Errorf("%w: %v", memory.ErrService, err))
	}
	return strings.TrimSpace(response), nil
}

// renderContext formats each hit as "- [timestamp] category: summary",
// substituting placeholder labels for missing metadata.
func renderContext(hits []index.Hit) string {
	if len(hits) == 0 {
		return emptyContext
	}

	lines := make([]string, 0, len(hits))
	for _, hit := range hits {
		timestamp := hit.Metadata["timestamp"]
		if timestamp == "" {
			timestamp = "unknown"
		}
		category := hit.Metadata["category"]
		if category == "" {
			category = "uncategorized"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s", timestamp, category, hit.Text))
	}
	return strings.Join(lines, "\n")
}
