// Package persian provides the word segmentation and normalization
// shared by the lexical index and the ingestion pipeline. Both sides of
// the hybrid ranker must tokenize identically or fused scores drift.
package persian

import (
	"strings"
	"unicode"
)

const (
	zwnj    = '‌'
	tatweel = 'ـ'
)

// characterFolding maps Arabic presentation variants onto their Persian
// counterparts so «علي» and «علی» index to the same term.
var characterFolding = map[rune]rune{
	'ي': 'ی', // Arabic yeh
	'ى': 'ی', // alef maksura
	'ك': 'ک', // Arabic kaf
	'ة': 'ه', // teh marbuta
	'أ': 'ا', // alef with hamza above
	'إ': 'ا', // alef with hamza below
}

// Normalize folds Arabic character variants, strips diacritics and
// tatweel, and collapses whitespace runs into single spaces.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isDiacritic(r) || r == tatweel {
			continue
		}
		if folded, ok := characterFolding[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CleanText normalizes and then drops every character outside the
// Arabic/Persian block, digits, whitespace and sentence punctuation.
func CleanText(text string) string {
	normalized := Normalize(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			b.WriteRune(r)
		case r == zwnj:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '.' || r == '،' || r == '؟' || r == '!' || r == ',' || r == ';' || r == ':':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// WordTokenize splits normalized text into words. Zero-width non-joiner
// stays word-internal so compounds like «می‌توانم» remain one token;
// punctuation and diacritics never fragment words.
func WordTokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == zwnj {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isDiacritic(r rune) bool {
	// Arabic harakat block plus the Quranic annotation marks.
	return (r >= 0x064B && r <= 0x065F) || (r >= 0x0610 && r <= 0x061A) || r == 0x0670
}
