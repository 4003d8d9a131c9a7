// Package ingest orchestrates the memory pipeline: structured extraction,
// semantic index insertion, and the final append to the log store.
package ingest

import (
	"context"
	"log/slog"

	"github.com/notevault/notevault-go/pkg/index"
	"github.com/notevault/notevault-go/pkg/logstore"
	"github.com/notevault/notevault-go/pkg/memory"
)

// Extractor produces a memory record draft from raw text.
type Extractor interface {
	Extract(ctx context.Context, rawText, source, language string) (*memory.Record, error)
}

// Pipeline runs one note through extraction, indexing, and the log append.
type Pipeline struct {
	extractor Extractor
	index     index.SemanticIndex
	store     *logstore.Store
	logger    *slog.Logger
}

// New creates an ingest pipeline. A nil logger falls back to slog.Default.
func New(extractor Extractor, idx index.SemanticIndex, store *logstore.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		index:     idx,
		store:     store,
		logger:    logger,
	}
}

// Ingest processes one note, strictly ordered: extract, then index, then
// append. The returned record is exactly what was persisted.
//
// Index insertion failure is not fatal: the record is still appended with
// an empty EmbeddingID, trading searchability for durability of the raw
// memory. Append failure is fatal; no partial record is committed.
func (p *Pipeline) Ingest(ctx context.Context, rawText, source, language string) (*memory.Record, error) {
	record, err := p.extractor.Extract(ctx, rawText, source, language)
	if err != nil {
		return nil, err
	}

	ids, err := p.index.Insert(ctx, []string{record.Summary}, []map[string]string{record.Metadata()})
	switch {
	case err != nil:
		p.logger.Warn("semantic index insert failed, memory will not be searchable",
			"id", record.ID, "error", err)
	case len(ids) > 0:
		record.EmbeddingID = ids[0]
		if err := p.index.Flush(ctx); err != nil {
			// The index is rebuildable; a failed flush is drift, not loss.
			p.logger.Warn("semantic index flush failed", "id", record.ID, "error", err)
		}
	}

	if err := p.store.Append(record); err != nil {
		return nil, memory.NewPipelineError("Ingest", err)
	}
	return record, nil
}
