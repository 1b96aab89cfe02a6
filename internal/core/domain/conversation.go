package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged turn of the conversation history.
// History is owned by the caller and never mutated by the core.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Interaction is the append-only log record written after every exchange.
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Context   string    `json:"context"`
	Response  string    `json:"response"`
	IsClean   bool      `json:"is_clean"`
}
