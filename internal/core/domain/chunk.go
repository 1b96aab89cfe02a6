package domain

// Chunk is one immutable retrievable unit of corpus text. Index is its
// stable position in the corpus ordering.
type Chunk struct {
	Content  string            `json:"content"`
	Index    int               `json:"index"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RankedChunk is a chunk paired with its fused relevance score.
type RankedChunk struct {
	Chunk
	Score float64 `json:"score"`
}

type Answer struct {
	Text    string        `json:"text"`
	Sources []RankedChunk `json:"sources"`
	Clean   bool          `json:"clean"`
}

type AskRequest struct {
	Question string    `json:"question"`
	History  []Message `json:"history,omitempty"`
}

// SamplingParams controls a single generation call. Zero values mean
// "let the model backend decide".
type SamplingParams struct {
	MaxTokens     int
	Temperature   float64
	TopP          float64
	TopK          int
	RepeatPenalty float64
}
