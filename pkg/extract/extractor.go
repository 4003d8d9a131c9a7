// Package extract turns raw note text into a structured memory record via
// a single schema-constrained language model request.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notevault/notevault-go/pkg/llm"
	"github.com/notevault/notevault-go/pkg/memory"
)

const systemPrompt = "You extract structured memory records from user notes. " +
	"Return data that matches the required JSON schema exactly."

const userPromptTemplate = `Note:
%s

Constraints:
- Use a concise summary (max 3 sentences).
- Choose a single category label.
- Tags and entities should be short strings.

Return a JSON object with exactly these fields:
{"summary": string, "category": string, "tags": [string], "entities": [string]}

Return only the JSON object, no other text.`

// Extractor converts raw text into memory record drafts.
//
// Extraction is idempotent in intent but not deterministic: repeated calls
// on the same text may yield different summaries or categories. No
// canonicalization or deduplication happens at this layer.
type Extractor struct {
	llm    llm.Provider
	system string
}

// New creates an extractor with the default prompt.
func New(provider llm.Provider) *Extractor {
	return &Extractor{llm: provider, system: systemPrompt}
}

// NewWithPrompt creates an extractor with a custom system prompt. An empty
// prompt falls back to the default.
func NewWithPrompt(provider llm.Provider, system string) *Extractor {
	if system == "" {
		system = systemPrompt
	}
	return &Extractor{llm: provider, system: system}
}

// draft mirrors the schema the model is asked to produce.
type draft struct {
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Entities []string `json:"entities"`
}

// Extract issues one structured-generation request and returns a fresh
// record with ID, timestamp, and the parsed fields populated. EmbeddingID
// is left unset; the ingest pipeline fills it after indexing.
//
// Fails with memory.ErrExtraction when the reply does not conform to the
// schema and memory.ErrService when the model call itself fails. Neither
// is retried here.
func (e *Extractor) Extract(ctx context.Context, rawText, source, language string) (*memory.Record, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, memory.NewPipelineError("Extract", memory.ErrInvalidInput)
	}

	messages := []llm.Message{
		{Role: "system", Content: e.system},
		{Role: "user", Content: fmt.Sprintf(userPromptTemplate, rawText)},
	}

	response, err := e.llm.GenerateWithMessages(ctx, messages, llm.WithTemperature(0.2))
	if err != nil {
		return nil, memory.NewPipelineError("Extract", fmt.Errorf("%w: %v", memory.ErrService, err))
	}

	d, err := parseDraft(response)
	if err != nil {
		return nil, memory.NewPipelineError("Extract", fmt.Errorf("%w: %v", memory.ErrExtraction, err))
	}

	return &memory.Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		RawText:   rawText,
		Summary:   d.Summary,
		Category:  d.Category,
		Tags:      d.Tags,
		Entities:  d.Entities,
		Source:    source,
		Language:  language,
	}, nil
}

// parseDraft strips code fences and parses the reply against the schema.
func parseDraft(response string) (*draft, error) {
	cleaned := removeCodeBlocks(response)

	var d draft
	if err := json.Unmarshal([]byte(cleaned), &d); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %v", err)
	}
	if strings.TrimSpace(d.Summary) == "" {
		return nil, fmt.Errorf("missing summary")
	}
	if strings.TrimSpace(d.Category) == "" {
		return nil, fmt.Errorf("missing category")
	}
	return &d, nil
}

// removeCodeBlocks strips ```json fences some models wrap around output.
func removeCodeBlocks(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}
