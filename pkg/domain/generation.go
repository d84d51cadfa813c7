package domain

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const MinPromptLength = 10

const DefaultStyle = "photorealistic"

// GenerationRequest is the decoded body of a vision request.
type GenerationRequest struct {
	Prompt    string `json:"prompt"`
	Structure string `json:"structure,omitempty"`
	Climate   string `json:"climate,omitempty"`
	Style     string `json:"style,omitempty"`
}

// ParseGenerationRequest decodes a request body. Fields that are not JSON
// strings are dropped, and a body that is not an object has no fields, so
// only malformed JSON is an error.
func ParseGenerationRequest(body []byte) (GenerationRequest, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return GenerationRequest{}, err
	}

	fields, _ := raw.(map[string]any)
	text := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}

	return GenerationRequest{
		Prompt:    text("prompt"),
		Structure: text("structure"),
		Climate:   text("climate"),
		Style:     text("style"),
	}, nil
}

type GenerationResult struct {
	ImageURL   string `json:"image_url"`
	PromptUsed string `json:"prompt_used,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Validate reports a client input error when the trimmed prompt is shorter
// than MinPromptLength characters. Template keys are never validated.
func (r GenerationRequest) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Prompt)) < MinPromptLength {
		return NewClientInputError(MsgPromptTooShort)
	}
	return nil
}
