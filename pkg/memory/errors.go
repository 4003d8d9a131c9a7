package memory

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline's failure taxonomy.
var (
	// ErrService indicates a collaborator (language model, embedding or
	// search service) could not be reached or returned an unusable response.
	ErrService = errors.New("model service unavailable")

	// ErrExtraction indicates the language model responded but its output
	// did not conform to the required structured schema.
	ErrExtraction = errors.New("extraction output did not match schema")

	// ErrStorage indicates a log store I/O failure on append or read.
	ErrStorage = errors.New("log store operation failed")

	// ErrInvalidInput indicates the caller supplied unusable input,
	// such as empty note text.
	ErrInvalidInput = errors.New("invalid input")
)

// DecodeError reports a persisted log line that cannot be parsed back
// into a Record. Line numbers are 1-based.
type DecodeError struct {
	// Line is the offending line number within the log file.
	Line int

	// Err is the underlying parse error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("log line %d: undecodable record: %v", e.Line, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PipelineError wraps errors with the name of the operation that failed.
//
// Example:
//
//	err := &PipelineError{Op: "Ingest", Err: ErrStorage}
//	// Error() returns: "notevault: Ingest: log store operation failed"
type PipelineError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("notevault: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so errors.Is and errors.As see
// through the wrapper.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError wraps err with the operation name. Returns nil when
// err is nil, so it can be used on any return path.
func NewPipelineError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{Op: op, Err: err}
}
