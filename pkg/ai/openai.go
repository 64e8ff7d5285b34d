package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const openAIDefaultModel = "gpt-5.1"

const systemPrompt = `You are an intelligent email triage assistant.

You MUST respond ONLY with a single valid JSON object with this exact schema:
{
  "summary": "1-3 sentence plain-English summary of the email",
  "urgency": "urgent | normal | low",
  "category": "work | school | personal | promo | automated",
  "tasks": ["task1", "task2"],
  "reply_draft": "suggested reply text"
}

Rules:
- No extra commentary, no explanations, no markdown, no code fences.
- "summary" should focus on the main point and key actions/dates, not every detail.
- "tasks" should be a list of concrete, actionable items from the email body.
- If there are no tasks, use an empty list [].
- If the email is clearly automated or promotional, set category to "promo" or "automated"
  and you may set reply_draft to an empty string.`

// OpenAIService implements Classifier using the OpenAI chat completions API
type OpenAIService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIService creates a new OpenAI classifier
func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIService{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify implements Classifier
func (s *OpenAIService) Classify(ctx context.Context, subject, body, sender string) (*Result, error) {
	userPrompt := fmt.Sprintf("EMAIL SENDER: %s\nSUBJECT: %s\n\nBODY:\n%s", sender, subject, body)

	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		// temperature 0 for more deterministic JSON; still not guaranteed
		Temperature: 0,
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return DecodeResult(parsed.Choices[0].Message.Content)
}
