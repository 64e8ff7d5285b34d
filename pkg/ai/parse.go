package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError means the model returned text that could not be decoded as
// the expected JSON object. Raw carries the original (uncleaned) output
// for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("classifier returned invalid JSON: %s", e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CleanModelJSON strips markdown code fences the model sometimes wraps
// its output in, with or without a "json" language tag, so the remainder
// can be handed to the JSON decoder.
func CleanModelJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(strings.Trim(text, "`"))
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = strings.TrimLeft(text[4:], " \t\r\n")
		}
	}
	return text
}

// DecodeResult cleans raw model output and decodes it into a Result.
// Returns a *ParseError carrying the original text when decoding fails.
func DecodeResult(raw string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(CleanModelJSON(raw)), &result); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return &result, nil
}
