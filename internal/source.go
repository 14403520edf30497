package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// BatchSource yields the chat elements visible on each poll
type BatchSource interface {
	// Fetch returns the elements of the most recent capture in display order.
	Fetch(ctx context.Context) ([]ObservedElement, error)
	Close() error
}

// OpenSource creates the source named by cfg
func OpenSource(cfg SourceConfig) (BatchSource, error) {
	if cfg.Path == "" {
		return nil, &SourceError{Source: cfg.Type, Err: fmt.Errorf("no source path configured")}
	}
	switch cfg.Type {
	case SourceFile:
		return NewFileSource(cfg.Path), nil
	case SourceSQLite:
		src, err := OpenSQLiteSource(cfg.Path)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, &SourceError{Source: cfg.Type, Err: fmt.Errorf("unknown source type")}
	}
}

// FileSource reads a JSON array of elements that a capture process rewrites
// on every poll.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and parses the capture file
func (s *FileSource) Fetch(ctx context.Context) ([]ObservedElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &SourceError{Source: SourceFile, Err: err}
	}

	var elements []ObservedElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &SourceError{Source: SourceFile, Err: &ParseError{Source: "file_source", Key: s.path, Err: err}}
	}
	return elements, nil
}

// Close is a no-op for file sources
func (s *FileSource) Close() error {
	return nil
}
