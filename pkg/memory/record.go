// Package memory defines the memory record model shared by every stage of
// the note pipeline, along with the error taxonomy used across the module.
package memory

import (
	"encoding/json"
	"strings"
	"time"
)

// Record is the structured, persisted representation of one note.
//
// A record is created by the extractor, optionally enriched with an
// EmbeddingID by the semantic index, and then appended to the log store.
// Once appended it is never mutated or deleted.
type Record struct {
	// ID is the unique identifier of the record, assigned at creation.
	ID string `json:"id"`

	// Timestamp is the creation instant (UTC).
	Timestamp time.Time `json:"timestamp"`

	// RawText is the original input text, kept verbatim.
	RawText string `json:"raw_text"`

	// Summary is a concise distillation of the note, at most three sentences.
	Summary string `json:"summary"`

	// Category is a single free-form label chosen by the extractor.
	Category string `json:"category"`

	// Tags are short free-form labels. May be empty.
	Tags []string `json:"tags"`

	// Entities name people, places, and things mentioned in the note.
	Entities []string `json:"entities"`

	// Source records where the note came from, e.g. "text" or "voice".
	Source string `json:"source"`

	// Language is a short ISO-style language code, e.g. "en".
	Language string `json:"language"`

	// EmbeddingID is the identifier returned by the semantic index on
	// insertion. Empty until insertion succeeds, then set exactly once.
	// A persisted record with an empty EmbeddingID was never indexed.
	EmbeddingID string `json:"embedding_id,omitempty"`
}

// Encode serializes the record to a single self-describing JSON line
// suitable for the append-only log. The output contains no raw newlines.
func (r *Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses a single encoded line back into a Record.
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Metadata flattens the record into the string map submitted to the
// semantic index alongside the summary text. List fields are comma-joined
// so they survive metadata stores that only hold flat strings.
func (r *Record) Metadata() map[string]string {
	return map[string]string{
		"id":        r.ID,
		"timestamp": r.Timestamp.Format(time.RFC3339),
		"category":  r.Category,
		"tags":      strings.Join(r.Tags, ", "),
		"entities":  strings.Join(r.Entities, ", "),
		"source":    r.Source,
		"language":  r.Language,
		"raw_text":  r.RawText,
	}
}
