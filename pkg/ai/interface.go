package ai

import "context"

// Result is the structured triage output the model must produce for a
// single email. Absent fields are left at their zero values; the caller
// substitutes defaults.
type Result struct {
	Summary    string   `json:"summary"`
	Urgency    string   `json:"urgency"`
	Category   string   `json:"category"`
	Tasks      []string `json:"tasks"`
	ReplyDraft string   `json:"reply_draft"`
}

// Classifier is the interface for AI email classification.
// Implement this interface to add new providers (OpenAI, Ollama, etc.)
type Classifier interface {
	Classify(ctx context.Context, subject, body, sender string) (*Result, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
