package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parsa-ai/parsa/internal/core/domain"
	"github.com/parsa-ai/parsa/internal/core/ports"
)

// auditCleanMarker is the exact verdict the auditing model must emit
// for a grounded answer. Anything else, including errors, is not clean.
const auditCleanMarker = "پاک"

var auditParams = domain.SamplingParams{
	MaxTokens:     16,
	Temperature:   0.2,
	TopP:          0.9,
	TopK:          10,
	RepeatPenalty: 1.1,
}

// ResponseAuditor re-invokes the generator with a canary-guarded prompt
// asking whether a candidate answer is fully grounded in the supplied
// context. The check fails closed: uncertain or error states are never
// reported as clean.
type ResponseAuditor struct {
	generator ports.Generator
}

func NewResponseAuditor(generator ports.Generator) *ResponseAuditor {
	return &ResponseAuditor{generator: generator}
}

func (a *ResponseAuditor) Audit(ctx context.Context, answer, contextText string) bool {
	canary := NewCanary()
	prompt := fmt.Sprintf(`<SYS_INSTR>
فقط بررسی کن که آیا پاسخ زیر از نظر محتوایی کاملاً با متن <CONTEXT> هم‌خوانی دارد.
اگر معنا یکی است اما واژگان متفاوت یا بازنویسی‌شده است، باز هم «%s» بنویس.
CANARY: %s
</SYS_INSTR>

<CONTEXT>
%s
</CONTEXT>

<RESPONSE>
%s
</RESPONSE>
`, auditCleanMarker, canary, contextText, answer)

	verdict, err := a.generator.Complete(ctx, prompt, auditParams)
	if err != nil {
		slog.Warn("audit_generation_failed", "error", err)
		return false
	}
	return strings.TrimSpace(verdict) == auditCleanMarker
}
