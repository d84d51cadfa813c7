package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NewClientInputError(MsgPromptTooShort), http.StatusBadRequest},
		{NewMethodError(), http.StatusMethodNotAllowed},
		{NewConfigError(MsgMissingToken), http.StatusInternalServerError},
		{NewUpstreamError("Replicate 401: nope", nil), http.StatusBadGateway},
		{NewTimeoutError("Generation timed out. Status: starting"), http.StatusGatewayTimeout},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Message, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsError(t *testing.T) {
	timeout := NewTimeoutError("Generation timed out. Status: processing")
	assert.Same(t, timeout, AsError(fmt.Errorf("polling: %w", timeout)))

	cause := errors.New("connection refused")
	de := AsError(fmt.Errorf("creating prediction: %w", cause))
	assert.Equal(t, KindInternal, de.Kind)
	assert.Equal(t, "Internal error: creating prediction: connection refused", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		prompt string
		valid  bool
	}{
		{"", false},
		{"          ", false},
		{"  short  ", false},
		{"123456789", false},
		{"1234567890", true},
		{"  1234567890  ", true},
		{"ĥĕmṗçŕëţë!", true},
		{"A small hempcrete cabin in the woods", true},
	}

	for _, tt := range tests {
		err := GenerationRequest{Prompt: tt.prompt, Style: "sketch", Climate: "forest"}.Validate()
		if tt.valid {
			assert.NoError(t, err, "prompt %q", tt.prompt)
			continue
		}

		var de *Error
		if assert.ErrorAs(t, err, &de, "prompt %q", tt.prompt) {
			assert.Equal(t, KindClientInput, de.Kind)
			assert.Equal(t, MsgPromptTooShort, de.Message)
		}
	}
}
