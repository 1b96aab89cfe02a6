// Package chunking splits extracted document text into overlapping
// fixed-size rune windows for indexing.
package chunking

import "strings"

type Splitter struct {
	ChunkSize int
	Overlap   int

	// Normalize, when set, is applied to each chunk before trimming.
	// The indexing pipeline wires Persian text cleanup here.
	Normalize func(string) string
}

func NewSplitter(chunkSize, overlap int, normalize func(string) string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
		Normalize: normalize,
	}
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		if s.Normalize != nil {
			chunk = s.Normalize(chunk)
		}
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
