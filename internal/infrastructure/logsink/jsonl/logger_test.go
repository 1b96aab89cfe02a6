package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

func TestLogAppendsOneJSONLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "interactions.jsonl")
	logger, err := New(path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	records := []domain.Interaction{
		{
			Timestamp: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			Question:  "گربه کجاست؟",
			Context:   "[Chunk 0]\nگربه روی دیوار است",
			Response:  "گربه روی دیوار است.",
			IsClean:   true,
		},
		{
			Timestamp: time.Date(2026, 3, 4, 10, 1, 0, 0, time.UTC),
			Question:  "سگ کجاست؟",
			Response:  "[response suppressed: leak detected]",
			IsClean:   false,
		},
	}
	for _, record := range records {
		if err := logger.Log(context.Background(), record); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var read []domain.Interaction
	for scanner.Scan() {
		var record domain.Interaction
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line is not valid json: %v", err)
		}
		read = append(read, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(read) != len(records) {
		t.Fatalf("read %d records, want %d", len(read), len(records))
	}
	for i := range records {
		if read[i].Question != records[i].Question {
			t.Fatalf("record %d question = %q, want %q", i, read[i].Question, records[i].Question)
		}
		if read[i].IsClean != records[i].IsClean {
			t.Fatalf("record %d clean = %v, want %v", i, read[i].IsClean, records[i].IsClean)
		}
	}
}

func TestNewCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "interactions.jsonl")
	if _, err := New(path); err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("log directory missing: %v", err)
	}
}

func TestLogSurvivesExternalRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactions.jsonl")
	logger, err := New(path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	record := domain.Interaction{Timestamp: time.Now().UTC(), Question: "سوال"}
	if err := logger.Log(context.Background(), record); err != nil {
		t.Fatalf("log: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := logger.Log(context.Background(), record); err != nil {
		t.Fatalf("log after rotation: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("log must be recreated after rotation")
	}
}
