package usecase

import (
	"strings"

	"github.com/google/uuid"
)

// forbiddenDelimiters are instruction markers that must never appear in
// model output or in user-supplied tokens.
var forbiddenDelimiters = []string{"<SYS_INSTR>", "System:"}

// NewCanary returns a fresh single-use canary token. One canary is
// scoped to exactly one prompt/response exchange and is never persisted.
func NewCanary() string {
	return uuid.NewString()
}

// TokenIsValid reports whether text is free of the active canary and of
// forbidden instruction delimiters (case-insensitive). A false result
// signals a potential prompt or context leak. An empty canary fails
// closed: a guard without a token cannot vouch for anything.
func TokenIsValid(text, canary string) bool {
	if strings.Contains(text, canary) {
		return false
	}
	lower := strings.ToLower(text)
	for _, delimiter := range forbiddenDelimiters {
		if strings.Contains(lower, strings.ToLower(delimiter)) {
			return false
		}
	}
	return true
}
