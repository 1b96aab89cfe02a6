package usecase

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

const maxQuestionRunes = 1000

var (
	persianLetters = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// SanitizeQuestion strips markup and non-Persian characters from user
// input and rejects oversized or non-Persian questions. The caller is
// expected to resubmit on ErrInvalidInput.
func SanitizeQuestion(input string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			return r
		case r == '‌': // ZWNJ joins Persian compound words
			return r
		case r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return r
		case r == '،' || r == '؟' || r == '!' || r == '.' || r == ',' || r == '-':
			return r
		default:
			return -1
		}
	}, stripHTML(input))
	cleaned = strings.TrimSpace(spaceRuns.ReplaceAllString(cleaned, " "))

	if utf8.RuneCountInString(cleaned) > maxQuestionRunes {
		return "", domain.WrapError(domain.ErrInvalidInput, "sanitize question",
			errors.New("question exceeds maximum length"))
	}
	if !persianLetters.MatchString(cleaned) {
		return "", domain.WrapError(domain.ErrInvalidInput, "sanitize question",
			errors.New("question contains no persian letters"))
	}
	return cleaned, nil
}

func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
