package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain JSON untouched",
			raw:  `{"summary": "hi"}`,
			want: `{"summary": "hi"}`,
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "\n  {\"summary\": \"hi\"}  \n",
			want: `{"summary": "hi"}`,
		},
		{
			name: "fenced block",
			raw:  "```\n{\"summary\": \"hi\"}\n```",
			want: `{"summary": "hi"}`,
		},
		{
			name: "fenced block with json tag",
			raw:  "```json\n{\"summary\": \"hi\"}\n```",
			want: `{"summary": "hi"}`,
		},
		{
			name: "fenced block with uppercase tag",
			raw:  "```JSON\n{\"summary\": \"hi\"}\n```",
			want: `{"summary": "hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanModelJSON(tt.raw))
		})
	}
}

func TestDecodeResult(t *testing.T) {
	raw := "```json\n" + `{
		"summary": "Meeting request for Tuesday.",
		"urgency": "normal",
		"category": "work",
		"tasks": ["Confirm Tuesday meeting"],
		"reply_draft": "Sounds good, Tuesday works."
	}` + "\n```"

	result, err := DecodeResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "Meeting request for Tuesday.", result.Summary)
	assert.Equal(t, "normal", result.Urgency)
	assert.Equal(t, "work", result.Category)
	assert.Equal(t, []string{"Confirm Tuesday meeting"}, result.Tasks)
	assert.Equal(t, "Sounds good, Tuesday works.", result.ReplyDraft)
}

func TestDecodeResultPartialObject(t *testing.T) {
	// Absent fields stay at zero values; defaults are the caller's job
	result, err := DecodeResult(`{"summary": "Just a note."}`)
	require.NoError(t, err)
	assert.Equal(t, "Just a note.", result.Summary)
	assert.Empty(t, result.Urgency)
	assert.Empty(t, result.Category)
	assert.Nil(t, result.Tasks)
	assert.Empty(t, result.ReplyDraft)
}

func TestDecodeResultInvalid(t *testing.T) {
	raw := "I'm sorry, I can't produce JSON for that."

	result, err := DecodeResult(raw)
	require.Error(t, err)
	assert.Nil(t, result)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, raw, parseErr.Raw)
	assert.Contains(t, parseErr.Error(), raw)
}
