// Package extractor routes a document to the extractor matching its
// MIME type or file extension.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
)

type Router struct {
	plaintext ports.TextExtractor
	pdf       ports.TextExtractor
	excel     ports.TextExtractor
}

func NewRouter(plaintext, pdf, excel ports.TextExtractor) *Router {
	return &Router{plaintext: plaintext, pdf: pdf, excel: excel}
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	return r.pick(doc).Extract(ctx, doc)
}

func (r *Router) pick(doc *domain.Document) ports.TextExtractor {
	mimeType := strings.ToLower(doc.MimeType)
	switch {
	case strings.Contains(mimeType, "pdf"):
		return r.pdf
	case strings.Contains(mimeType, "spreadsheet"), strings.Contains(mimeType, "ms-excel"):
		return r.excel
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return r.pdf
	case ".xlsx", ".xlsm":
		return r.excel
	default:
		return r.plaintext
	}
}
