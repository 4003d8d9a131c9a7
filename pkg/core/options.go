package core

// RecordOptions holds optional parameters for Record and Auto.
type RecordOptions struct {
	// Source is the provenance tag stored on the record.
	Source string

	// Language is the ISO-style language code stored on the record.
	Language string
}

// RecordOption configures a Record or Auto call.
type RecordOption func(*RecordOptions)

// WithSource sets the record's provenance tag, e.g. "voice".
func WithSource(source string) RecordOption {
	return func(opts *RecordOptions) {
		opts.Source = source
	}
}

// WithLanguage sets the record's language code.
func WithLanguage(language string) RecordOption {
	return func(opts *RecordOptions) {
		opts.Language = language
	}
}

func applyRecordOptions(opts []RecordOption) *RecordOptions {
	options := &RecordOptions{
		Source:   "text",
		Language: "en",
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// QueryOptions holds optional parameters for Query and Retrieve.
type QueryOptions struct {
	// TopK is the maximum number of memories retrieved.
	TopK int
}

// QueryOption configures a Query or Retrieve call.
type QueryOption func(*QueryOptions)

// WithTopK sets the maximum number of memories retrieved. Non-positive
// values use the retrieval default.
func WithTopK(k int) QueryOption {
	return func(opts *QueryOptions) {
		opts.TopK = k
	}
}

func applyQueryOptions(opts []QueryOption) *QueryOptions {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
