// Package jsonl appends one line-delimited JSON record per interaction.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

type Logger struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Logger, error) {
	if path == "" {
		path = "./data/log/interactions.jsonl"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Logger{path: path}, nil
}

// Log appends the record as one JSON line. The file is opened per call
// so an external rotation never strands a handle.
func (l *Logger) Log(_ context.Context, record domain.Interaction) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open interaction log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write interaction log: %w", err)
	}
	return nil
}
