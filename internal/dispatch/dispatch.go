// Package dispatch intercepts greetings, social pleasantries and
// meta-questions ("who made you") before they reach retrieval, replying
// with canned Persian responses. Anything unmatched falls through to
// the QA pipeline.
package dispatch

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

type category struct {
	name     string
	patterns []*regexp.Regexp
	replies  []string
}

// Handler picks replies from fixed candidate sets. The pick is driven
// by a seeded source so tests can pin the selection.
type Handler struct {
	mu         sync.Mutex
	rng        *rand.Rand
	categories []category
	meta       []*regexp.Regexp
	metaReply  []string
}

func New(seed int64) *Handler {
	return &Handler{
		rng:        rand.New(rand.NewSource(seed)),
		categories: buildCategories(),
		meta:       metaPatterns,
		metaReply:  metaReplies,
	}
}

// Handle returns (reply, true) when the input matches a greeting or
// meta-question category, otherwise ("", false).
func (h *Handler) Handle(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	for _, cat := range h.categories {
		for _, pattern := range cat.patterns {
			match := pattern.FindString(trimmed)
			if match == "" {
				continue
			}
			if cat.name == "time_based_greeting" {
				return timeGreetingReply(match), true
			}
			if cat.name == "farewell" {
				if reply, ok := timeFarewellReply(match); ok {
					return reply, true
				}
			}
			return h.pick(cat.replies), true
		}
	}

	for _, pattern := range h.meta {
		if pattern.MatchString(trimmed) {
			return h.pick(h.metaReply), true
		}
	}

	return "", false
}

func (h *Handler) pick(replies []string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return replies[h.rng.Intn(len(replies))]
}

// timeGreetingReply answers a time-of-day greeting with the matching
// time of day.
func timeGreetingReply(match string) string {
	switch {
	case strings.Contains(match, "صبح"):
		return "صبح بخیر! روزتان پر از انرژی و موفقیت."
	case strings.Contains(match, "ظهر"):
		return "ظهر بخیر! امیدوارم روز خوبی را سپری کرده باشید."
	case strings.Contains(match, "عصر"):
		return "عصر بخیر! چطور می‌توانم در این ساعات به شما یاری برسانم؟"
	case strings.Contains(match, "شب"):
		return "شب بخیر! امیدوارم شب آرامی داشته باشید."
	case strings.Contains(match, "وقت"):
		return "وقت بخیر! در خدمتم."
	case strings.Contains(match, "روز"):
		return "روز شما هم بخیر."
	default:
		return "وقت شما بخیر! چطور می‌توانم کمکتان کنم؟"
	}
}

func timeFarewellReply(match string) (string, bool) {
	switch {
	case strings.Contains(match, "روز خوش"):
		return "روز خوشی داشته باشید! خدانگهدار.", true
	case strings.Contains(match, "شب خوش"):
		return "شب خوشی داشته باشید! خدانگهدار.", true
	default:
		return "", false
	}
}

func buildCategories() []category {
	return []category{
		{
			name: "general_salutation",
			patterns: compile(
				`سلام`,
				`درود`,
				`سلام\s+علیکم`,
				`سام\s+علیک`,
				`با\s+سلام`,
				`علیک\s+سلام`,
				`سلام\s+و\s+عرض\s+ادب`,
				`درود\s+بر\s+شما`,
			),
			replies: []string{
				"سلام! چطور می‌توانم به شما کمک کنم؟",
				"درود بر شما! چه کمکی از دست من ساخته است؟",
				"سلام! روز خوبی داشته باشید. بفرمایید.",
				"علیک سلام! بفرمایید، آماده کمک هستم.",
			},
		},
		{
			name: "time_based_greeting",
			patterns: compile(
				`صبح\s+بخیر`,
				`ظهر\s+بخیر`,
				`عصر\s+بخیر`,
				`شب\s+بخیر`,
				`وقت\s+بخیر`,
				`روز\s+بخیر`,
				`صبح\s+شما\s+بخیر`,
			),
		},
		{
			name: "how_are_you",
			patterns: compile(
				`چه\s+خبر`,
				`حالت\s+چطوره`,
				`چطوری`,
				`اوضاع\s+چطوره`,
				`در\s+چه\s+حالی`,
			),
			replies: []string{
				"ممنون، همه چیز خوب است. آماده‌ام به سوالات شما پاسخ دهم.",
				"خوبم، متشکرم که پرسیدید. چطور می‌توانم به شما کمک کنم؟",
				"همه چیز مرتب است، ممنون. بفرمایید سوالتان را.",
			},
		},
		{
			name: "farewell",
			patterns: compile(
				`خداحافظ`,
				`خدانگهدار`,
				`به\s+امید\s+دیدار`,
				`فعلا`,
				`خدافظ`,
				`بای`,
				`روز\s+خوش`,
				`شب\s+خوش`,
				`تا\s+بعد`,
			),
			replies: []string{
				"خداحافظ! امیدوارم دوباره شما را ببینم.",
				"خدانگهدار! مراقب خودتان باشید.",
				"به امید دیدار! موفق باشید.",
			},
		},
		{
			name: "politeness",
			patterns: compile(
				`خسته\s+نباشید`,
				`خوشحال\s+شدم`,
			),
			replies: []string{
				"سلامت باشید! باعث خوشحالی است که توانستم کمک کنم.",
				"ممنون از لطفتان! برای شما آرزوی موفقیت دارم.",
				"زنده باشید! من هم از تعامل با شما خوشحال شدم.",
			},
		},
	}
}

// metaPatterns cover identity and provenance questions which the
// assistant redirects back to the documentation.
var metaPatterns = compile(
	`(چه\s+کسی|کی)\s+(شما\s+را|تو\s+رو|تورو)\s+(ساخته|درست\s+کرده)`,
	`(شما|تو)\s+(کی|چی)\s+(هستی|هستید)`,
	`سازنده\s*(ی|‌)?\s*(شما|تو)\s+(کیست|کیه)`,
	`توسعه\s+دهنده\s*(ی|‌)?\s*(شما|تو)\s+(کیست|کیه)`,
	`اسم\s*(ت|شما|تو)\s+(چیست|چیه)`,
	`نام\s*(ت|شما|تو)\s+(چیست|چیه)`,
	`خودت(و)?\s+معرفی\s+کن`,
	`(کدام|چه)\s+شرکتی\s+(شما\s+را|تو\s+رو|تورو)\s+(ساخته|توسعه\s+داده)`,
	`مالک\s*(شما|تو)\s+(کیست|کیه)`,
	`چند\s+سالته`,
	`(از\s+کجا|اهل\s+کجا)\s+(هستی|هستید)`,
	`در\s+مورد\s+خودت\s+بگو`,
	`کمی\s+از\s+خودت\s+بگو`,
)

var metaReplies = []string{
	"من یک دستیار هوش مصنوعی هستم که برای کمک به شما در زمینه اطلاعات موجود در مستندات طراحی شده‌ام. لطفاً سوال خود را در مورد محتوای مستندات بپرسید.",
	"تمرکز من بر ارائه اطلاعات از مستندات است. چطور می‌توانم در این زمینه به شما کمک کنم؟",
	"هدف من کمک به شما با اطلاعات درون‌سازمانی است. سوال شما در مورد اسناد چیست؟",
	"بیایید روی وظیفه اصلی تمرکز کنیم: پاسخ به سوالات شما از مستندات. بفرمایید.",
}

// nonWord separates words for boundary purposes. Combining marks and
// ZWNJ stay word-internal so «فعلاً» or «می‌خواهم» never expose a
// shorter word at their edge.
const nonWord = `[^\p{L}\p{M}\x{200C}]`

// compile anchors every pattern at word boundaries. RE2's \b is
// ASCII-only, so the boundaries are spelled out against nonWord.
func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		bounded := `(?:^|` + nonWord + `)(?:` + p + `)(?:$|` + nonWord + `)`
		out = append(out, regexp.MustCompile(bounded))
	}
	return out
}
