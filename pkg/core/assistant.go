package core

import (
	"context"
	"log/slog"
	"sync"

	"github.com/notevault/notevault-go/pkg/embedder"
	openaiEmbedder "github.com/notevault/notevault-go/pkg/embedder/openai"
	"github.com/notevault/notevault-go/pkg/extract"
	"github.com/notevault/notevault-go/pkg/index"
	chromemIndex "github.com/notevault/notevault-go/pkg/index/chromem"
	sqliteIndex "github.com/notevault/notevault-go/pkg/index/sqlite"
	"github.com/notevault/notevault-go/pkg/ingest"
	"github.com/notevault/notevault-go/pkg/llm"
	deepseekLLM "github.com/notevault/notevault-go/pkg/llm/deepseek"
	ollamaLLM "github.com/notevault/notevault-go/pkg/llm/ollama"
	openaiLLM "github.com/notevault/notevault-go/pkg/llm/openai"
	"github.com/notevault/notevault-go/pkg/logstore"
	"github.com/notevault/notevault-go/pkg/memory"
	"github.com/notevault/notevault-go/pkg/retrieval"
	"github.com/notevault/notevault-go/pkg/router"
)

// Assistant is the note-taking assistant client. It wires the router,
// ingest pipeline, retriever, and answerer over shared collaborators.
//
// Each operation runs to completion before the next begins; Record calls
// are serialized so the append-only log keeps its single-writer
// discipline even when the Assistant is shared across goroutines.
type Assistant struct {
	config *Config

	llm      llm.Provider
	embedder embedder.Provider
	index    index.SemanticIndex
	store    *logstore.Store

	pipeline  *ingest.Pipeline
	retriever *retrieval.Retriever
	answerer  *retrieval.Answerer
	router    *router.Router

	logger *slog.Logger

	// mu serializes ingest calls (single-writer log discipline).
	mu sync.Mutex
}

// Response is the outcome of an Auto call: the routing decision plus
// whichever result the dispatched operation produced.
type Response struct {
	// Decision is how the input was routed.
	Decision router.Decision

	// Record is the persisted memory when Decision is note.
	Record *memory.Record

	// Answer is the grounded answer when Decision is query.
	Answer string
}

// New creates an Assistant from configuration, constructing the language
// model, embedder, index backend, and log store it needs.
func New(cfg *Config) (*Assistant, error) {
	return NewWithLogger(cfg, slog.Default())
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *Config, logger *slog.Logger) (*Assistant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	llmProvider, err := initLLM(cfg.LLM)
	if err != nil {
		return nil, err
	}

	embedderProvider, err := initEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	idx, err := initIndex(cfg.Index, embedderProvider)
	if err != nil {
		return nil, err
	}

	storeOpts := []logstore.Option{logstore.WithLogger(logger)}
	if cfg.Store.SkipCorrupt {
		storeOpts = append(storeOpts, logstore.WithSkipCorrupt())
	}
	store, err := logstore.New(cfg.Store.Path, storeOpts...)
	if err != nil {
		return nil, err
	}

	a := NewWithComponents(llmProvider, embedderProvider, idx, store, logger)
	a.config = cfg
	return a, nil
}

// NewWithComponents builds an Assistant from already-constructed
// collaborators. This is the seam for substituting test doubles for the
// model and index services.
func NewWithComponents(llmProvider llm.Provider, embedderProvider embedder.Provider, idx index.SemanticIndex, store *logstore.Store, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		llm:       llmProvider,
		embedder:  embedderProvider,
		index:     idx,
		store:     store,
		pipeline:  ingest.New(extract.New(llmProvider), idx, store, logger),
		retriever: retrieval.NewRetriever(idx),
		answerer:  retrieval.NewAnswerer(llmProvider),
		router:    router.New(llmProvider),
		logger:    logger,
	}
}

// Record ingests text as a new memory: extraction, index insertion, and
// the final log append. The returned record is exactly what was persisted.
func (a *Assistant) Record(ctx context.Context, text string, opts ...RecordOption) (*memory.Record, error) {
	options := applyRecordOptions(opts)

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pipeline.Ingest(ctx, text, options.Source, options.Language)
}

// Query answers a question from previously recorded memories. A query
// that matches nothing is not an error; the answer states that no
// relevant memories were found.
func (a *Assistant) Query(ctx context.Context, text string, opts ...QueryOption) (string, error) {
	options := applyQueryOptions(opts)

	hits, err := a.retriever.Retrieve(ctx, text, options.TopK)
	if err != nil {
		return "", err
	}
	return a.answerer.Answer(ctx, text, hits)
}

// Retrieve returns the top-k most similar memories without composing an
// answer.
func (a *Assistant) Retrieve(ctx context.Context, text string, opts ...QueryOption) ([]index.Hit, error) {
	options := applyQueryOptions(opts)
	return a.retriever.Retrieve(ctx, text, options.TopK)
}

// Route classifies text as note-intent or query-intent without acting
// on it.
func (a *Assistant) Route(ctx context.Context, text string) (router.Decision, error) {
	return a.router.Route(ctx, text)
}

// Auto routes the input and dispatches it: notes go through the ingest
// pipeline, queries through retrieval and answering.
func (a *Assistant) Auto(ctx context.Context, text string, opts ...RecordOption) (*Response, error) {
	decision, err := a.router.Route(ctx, text)
	if err != nil {
		return nil, err
	}

	if decision == router.DecisionQuery {
		answer, err := a.Query(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Response{Decision: decision, Answer: answer}, nil
	}

	record, err := a.Record(ctx, text, opts...)
	if err != nil {
		return nil, err
	}
	return &Response{Decision: decision, Record: record}, nil
}

// ReadLog returns every persisted memory in creation order.
func (a *Assistant) ReadLog() ([]*memory.Record, error) {
	return a.store.ReadAll()
}

// Reindex walks the log and reinserts every record that was never
// indexed (empty EmbeddingID), restoring searchability after index
// failures or a rebuilt index directory. The log itself is append-only,
// so the stored embedding_id fields are not rewritten; Reindex returns
// the number of records reinserted.
func (a *Assistant) Reindex(ctx context.Context) (int, error) {
	it, err := a.store.Iterate()
	if err != nil {
		return 0, err
	}
	defer func() { _ = it.Close() }()

	count := 0
	for it.Next() {
		record := it.Record()
		if record.EmbeddingID != "" {
			continue
		}

		if _, err := a.index.Insert(ctx, []string{record.Summary}, []map[string]string{record.Metadata()}); err != nil {
			return count, memory.NewPipelineError("Reindex", err)
		}
		count++
	}
	if err := it.Err(); err != nil {
		return count, err
	}

	if err := a.index.Flush(ctx); err != nil {
		return count, memory.NewPipelineError("Reindex", err)
	}
	return count, nil
}

// Close releases the collaborators. The first error encountered is
// returned.
func (a *Assistant) Close() error {
	var errs []error

	if a.index != nil {
		if err := a.index.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.embedder != nil {
		if err := a.embedder.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// initLLM constructs the configured language model provider.
func initLLM(cfg LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openaiLLM.NewClient(&openaiLLM.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "deepseek":
		return deepseekLLM.NewClient(&deepseekLLM.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "ollama":
		return ollamaLLM.NewClient(&ollamaLLM.Config{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, memory.NewPipelineError("initLLM", memory.ErrInvalidInput)
	}
}

// initEmbedder constructs the configured embedding provider.
func initEmbedder(cfg EmbedderConfig) (embedder.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openaiEmbedder.NewClient(&openaiEmbedder.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
	default:
		return nil, memory.NewPipelineError("initEmbedder", memory.ErrInvalidInput)
	}
}

// initIndex constructs the configured semantic index backend.
func initIndex(cfg IndexConfig, emb embedder.Provider) (index.SemanticIndex, error) {
	switch cfg.Provider {
	case "chromem":
		return chromemIndex.New(&chromemIndex.Config{
			Path:       cfg.Path,
			Collection: cfg.Collection,
		}, emb)
	case "sqlite":
		return sqliteIndex.New(&sqliteIndex.Config{
			DBPath: cfg.Path,
			Table:  cfg.Collection,
		}, emb)
	default:
		return nil, memory.NewPipelineError("initIndex", memory.ErrInvalidInput)
	}
}
