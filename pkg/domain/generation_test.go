package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenerationRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want GenerationRequest
	}{
		{
			name: "all fields",
			body: `{"prompt":"a cabin","structure":"duplex","climate":"forest","style":"sketch"}`,
			want: GenerationRequest{Prompt: "a cabin", Structure: "duplex", Climate: "forest", Style: "sketch"},
		},
		{
			name: "non-string template keys",
			body: `{"prompt":"a cabin","structure":1,"climate":["forest"],"style":{"s":1}}`,
			want: GenerationRequest{Prompt: "a cabin"},
		},
		{
			name: "non-string prompt",
			body: `{"prompt":42,"style":"sketch"}`,
			want: GenerationRequest{Style: "sketch"},
		},
		{name: "array", body: `["not","an","object"]`},
		{name: "string", body: `"a cabin"`},
		{name: "null", body: `null`},
		{name: "unknown fields", body: `{"other":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGenerationRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGenerationRequest_InvalidJSON(t *testing.T) {
	_, err := ParseGenerationRequest([]byte(`{"prompt":`))
	assert.Error(t, err)
}
