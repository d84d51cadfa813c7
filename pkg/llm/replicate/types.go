package replicate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

type Prediction struct {
	ID     string         `json:"id"`
	Model  string         `json:"model"`
	Status string         `json:"status"`
	Output Output         `json:"output"`
	URLs   PredictionURLs `json:"urls"`
	Error  any            `json:"error"`
	Logs   string         `json:"logs"`
}

type PredictionURLs struct {
	Get    string `json:"get"`
	Cancel string `json:"cancel"`
}

// ErrorText renders the provider error, which may be a string or an object.
func (p Prediction) ErrorText() string {
	return anyText(p.Error)
}

func (p Prediction) terminal() bool {
	return lo.Contains([]string{
		PredictionStatusSucceeded,
		PredictionStatusFailed,
		PredictionStatusCanceled,
	}, p.Status)
}

// Output holds either a single URL or an ordered list of URLs.
type Output struct {
	urls     []string
	multiple bool
}

func SingleOutput(url string) Output {
	return Output{urls: []string{url}}
}

func MultipleOutput(urls ...string) Output {
	return Output{urls: urls, multiple: true}
}

func (o Output) IsMultiple() bool {
	return o.multiple
}

// First returns the first URL. ok is false when the output is absent or empty.
func (o Output) First() (url string, ok bool) {
	url = lo.FirstOrEmpty(o.urls)
	return url, url != ""
}

func (o *Output) UnmarshalJSON(data []byte) error {
	*o = Output{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return fmt.Errorf("decoding output url: %w", err)
		}
		*o = SingleOutput(url)
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decoding output list: %w", err)
		}
		urls := lo.FilterMap(items, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
		*o = MultipleOutput(urls...)
	}

	// Other shapes carry no URL and are treated as absent.
	return nil
}

type CreatePredictionRequest struct {
	Input FluxInput `json:"input"`
}

type FluxInput struct {
	Prompt        string `json:"prompt"`
	NumOutputs    int    `json:"num_outputs"`
	AspectRatio   string `json:"aspect_ratio"`
	OutputFormat  string `json:"output_format"`
	OutputQuality int    `json:"output_quality"`
}

type errorBody struct {
	Detail any `json:"detail"`
}

const (
	PredictionStatusStarting   = "starting"
	PredictionStatusProcessing = "processing"
	PredictionStatusSucceeded  = "succeeded"
	PredictionStatusFailed     = "failed"
	PredictionStatusCanceled   = "canceled"
)

func anyText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
