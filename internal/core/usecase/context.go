package usecase

import (
	"fmt"
	"html"
	"strings"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

const (
	chunkSeparator = "\n----\n"

	// emptyContextHTML marks an empty retrieval result in the display
	// block. The plain block is legitimately the empty string, the HTML
	// block must stay a visible sentinel.
	emptyContextHTML = "<b>متن بازیابی‌شده:</b><br>هیچ متنی یافت نشد."
)

// BuildContext renders ranked chunks into a plain delimited block for
// prompting and an HTML-escaped right-to-left block for display.
// A negative chunk index falls back to the sequence position.
func BuildContext(chunks []domain.RankedChunk) (plain string, display string) {
	if len(chunks) == 0 {
		return "", emptyContextHTML
	}

	formatted := make([]string, 0, len(chunks))
	contents := make([]string, 0, len(chunks))
	for seq, chunk := range chunks {
		index := chunk.Index
		if index < 0 {
			index = seq
		}
		formatted = append(formatted, fmt.Sprintf("[Chunk %d]\n%s", index, chunk.Content))
		contents = append(contents, chunk.Content)
	}

	escaped := html.EscapeString(strings.Join(contents, "\n"))
	display = "<div dir='rtl' lang='fa' style='font-family: Tahoma, sans-serif;'>" +
		strings.ReplaceAll(escaped, "\n", "<br>") +
		"</div>"

	return strings.Join(formatted, chunkSeparator), display
}
