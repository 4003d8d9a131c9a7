// Package logstore implements the durable, append-only record of every
// memory ever created: a JSONL file with one record per line, in creation
// order. The log is the source of truth; the semantic index can always be
// rebuilt from it.
//
// Single-writer discipline: the file is assumed to be exclusively owned by
// one running process. Concurrent appenders must be serialized by the
// caller.
package logstore

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/notevault/notevault-go/pkg/memory"
)

// maxLineSize bounds a single log line. Notes are short; 4 MiB leaves
// generous headroom for long transcriptions.
const maxLineSize = 4 << 20

// Store is an append-only JSONL store of memory records.
type Store struct {
	path        string
	skipCorrupt bool
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSkipCorrupt makes read passes skip undecodable lines with a warning
// instead of stopping at the first one. The default is to stop and report
// the offending line.
func WithSkipCorrupt() Option {
	return func(s *Store) {
		s.skipCorrupt = true
	}
}

// WithLogger sets the logger used for skip-and-warn reads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store writing to path. The parent directory is created if
// needed; the file itself is created on first append.
func New(path string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory: %v", memory.ErrStorage, err)
		}
	}

	s := &Store{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// Append serializes the record and adds it as the new final line. The
// line is written with a single write call so a crash never leaves a
// partial record visible to a subsequent full line scan.
func (s *Store) Append(record *memory.Record) error {
	data, err := record.Encode()
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", memory.ErrStorage, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open log: %v", memory.ErrStorage, err)
	}

	line := append(data, '\n')
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: append: %v", memory.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close log: %v", memory.ErrStorage, err)
	}
	return nil
}

// ReadAll returns every record in file order. A missing file is an empty
// log. Undecodable lines follow the store's decode policy.
func (s *Store) ReadAll() ([]*memory.Record, error) {
	it, err := s.Iterate()
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var records []*memory.Record
	for it.Next() {
		records = append(records, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Iterate opens a fresh read pass over the log. Each call starts from the
// beginning; the iterator terminates at end of file.
func (s *Store) Iterate() (*Iterator, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No log yet: iterate over nothing.
			return &Iterator{}, nil
		}
		return nil, fmt.Errorf("%w: open log: %v", memory.ErrStorage, err)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Iterator{
		f:           f,
		sc:          sc,
		skipCorrupt: s.skipCorrupt,
		logger:      s.logger,
	}, nil
}

// Iterator walks the log one record at a time without materializing the
// whole file.
type Iterator struct {
	f           *os.File
	sc          *bufio.Scanner
	skipCorrupt bool
	logger      *slog.Logger

	line int
	cur  *memory.Record
	err  error
}

// Next advances to the next record. It returns false at end of file or on
// the first error; check Err afterwards.
func (it *Iterator) Next() bool {
	if it.sc == nil || it.err != nil {
		return false
	}

	for it.sc.Scan() {
		it.line++
		text := strings.TrimSpace(it.sc.Text())
		if text == "" {
			continue
		}

		rec, err := memory.Decode([]byte(text))
		if err != nil {
			decodeErr := &memory.DecodeError{Line: it.line, Err: err}
			if it.skipCorrupt {
				if it.logger != nil {
					it.logger.Warn("skipping undecodable log line", "line", it.line, "error", err)
				}
				continue
			}
			it.err = decodeErr
			return false
		}

		it.cur = rec
		return true
	}

	if err := it.sc.Err(); err != nil {
		it.err = fmt.Errorf("%w: read log: %v", memory.ErrStorage, err)
	}
	return false
}

// Record returns the record produced by the last successful Next.
func (it *Iterator) Record() *memory.Record {
	return it.cur
}

// Err returns the first error encountered, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Close releases the underlying file handle.
func (it *Iterator) Close() error {
	if it.f != nil {
		return it.f.Close()
	}
	return nil
}
