package replicate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantURL  string
		wantOK   bool
		multiple bool
	}{
		{name: "single", json: `"http://x"`, wantURL: "http://x", wantOK: true},
		{name: "list takes first", json: `["http://a","http://b"]`, wantURL: "http://a", wantOK: true, multiple: true},
		{name: "null", json: `null`},
		{name: "empty list", json: `[]`, multiple: true},
		{name: "empty string", json: `""`},
		{name: "object is ignored", json: `{"url":"http://x"}`},
		{name: "non string items skipped", json: `[null, 3, "http://c"]`, wantURL: "http://c", wantOK: true, multiple: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Prediction
			require.NoError(t, json.Unmarshal([]byte(`{"status":"succeeded","output":`+tt.json+`}`), &p))

			url, ok := p.Output.First()
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.multiple, p.Output.IsMultiple())
		})
	}
}

func TestOutputMissing(t *testing.T) {
	var p Prediction
	require.NoError(t, json.Unmarshal([]byte(`{"status":"starting","urls":{"get":"http://poll"}}`), &p))

	_, ok := p.Output.First()
	assert.False(t, ok)
	assert.Equal(t, "http://poll", p.URLs.Get)
}

func TestPredictionErrorText(t *testing.T) {
	assert.Equal(t, "", Prediction{}.ErrorText())
	assert.Equal(t, "boom", Prediction{Error: "boom"}.ErrorText())
	assert.JSONEq(t, `{"code":"E1"}`, Prediction{Error: map[string]any{"code": "E1"}}.ErrorText())
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "bad token", errorDetail([]byte(`{"detail":"bad token"}`)))
	assert.Equal(t, `{"title":"x"}`, errorDetail([]byte(`{"title":"x"}`)))
	assert.Equal(t, "plain", errorDetail([]byte("plain")))
}

func TestNewHTTPClient(t *testing.T) {
	hc, err := NewHTTPClient("")
	require.NoError(t, err)
	assert.NotNil(t, hc.Transport)

	hc, err = NewHTTPClient("socks5://127.0.0.1:1080")
	require.NoError(t, err)
	assert.NotNil(t, hc.Transport)

	_, err = NewHTTPClient("ftp://127.0.0.1:21")
	assert.Error(t, err)
}
