package excel

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

type stubStorage struct {
	objects map[string][]byte
}

func (s *stubStorage) Save(context.Context, string, io.Reader) error { return nil }

func (s *stubStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := s.objects[key]
	if !ok {
		return nil, errors.New("not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func workbookBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestExtractJoinsCellsAndRows(t *testing.T) {
	raw := workbookBytes(t, [][]string{
		{"نام", "سمت"},
		{"سارا", "مدیر"},
	})
	storage := &stubStorage{objects: map[string][]byte{"doc-1_data.xlsx": raw}}
	extractor := NewExtractor(storage)

	text, err := extractor.Extract(context.Background(), &domain.Document{
		ID:          "doc-1",
		Filename:    "data.xlsx",
		StoragePath: "doc-1_data.xlsx",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), text)
	}
	if lines[0] != "نام\tسمت" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if lines[1] != "سارا\tمدیر" {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestExtractSkipsEmptyRows(t *testing.T) {
	raw := workbookBytes(t, [][]string{
		{"اول"},
		{},
		{"دوم"},
	})
	storage := &stubStorage{objects: map[string][]byte{"k": raw}}
	extractor := NewExtractor(storage)

	text, err := extractor.Extract(context.Background(), &domain.Document{StoragePath: "k", Filename: "a.xlsx"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(text, "\n\n") {
		t.Fatalf("empty rows must be skipped: %q", text)
	}
}

func TestExtractRejectsNonWorkbook(t *testing.T) {
	storage := &stubStorage{objects: map[string][]byte{"k": []byte("plain text")}}
	extractor := NewExtractor(storage)

	_, err := extractor.Extract(context.Background(), &domain.Document{StoragePath: "k", Filename: "a.xlsx"})
	if err == nil {
		t.Fatal("expected error for non-workbook content")
	}
}
