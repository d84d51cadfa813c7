package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/earthback/visualizer/pkg/domain"
	"github.com/samber/lo"
)

const (
	DefaultBaseURL         = "https://api.replicate.com/v1"
	DefaultCreateTimeout   = 55 * time.Second
	DefaultPollTimeout     = 10 * time.Second
	DefaultPollInterval    = 1500 * time.Millisecond
	DefaultMaxPollAttempts = 20

	maxDetailLength  = 300
	maxInvalidLength = 200
	maxResponseBytes = 1 << 20
)

// errPollAborted ends polling early; the request then reports a timeout.
var errPollAborted = errors.New("poll aborted")

// Observer receives per-call outcomes. It must be safe for concurrent use.
type Observer interface {
	UpstreamCall(op, result string)
	PollAttempts(n int)
}

type noopObserver struct{}

func (noopObserver) UpstreamCall(string, string) {}
func (noopObserver) PollAttempts(int)            {}

type client struct {
	token           string
	baseURL         string
	model           string
	hc              *http.Client
	createTimeout   time.Duration
	pollTimeout     time.Duration
	pollInterval    time.Duration
	maxPollAttempts int
	observer        Observer
}

type Option func(*client)

func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithModel(model string) Option {
	return func(c *client) { c.model = model }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.hc = hc }
}

func WithCreateTimeout(d time.Duration) Option {
	return func(c *client) { c.createTimeout = d }
}

func WithPollTimeout(d time.Duration) Option {
	return func(c *client) { c.pollTimeout = d }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *client) { c.pollInterval = d }
}

func WithMaxPollAttempts(n int) Option {
	return func(c *client) { c.maxPollAttempts = n }
}

func WithObserver(o Observer) Option {
	return func(c *client) { c.observer = o }
}

// NewClient returns domain.ErrMissingToken when the trimmed token is empty.
func NewClient(token string, opts ...Option) (*client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("creating replicate client: %w", domain.ErrMissingToken)
	}

	c := &client{
		token:           token,
		baseURL:         DefaultBaseURL,
		model:           DefaultModel,
		hc:              &http.Client{},
		createTimeout:   DefaultCreateTimeout,
		pollTimeout:     DefaultPollTimeout,
		pollInterval:    DefaultPollInterval,
		maxPollAttempts: DefaultMaxPollAttempts,
		observer:        noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.maxPollAttempts <= 0 {
		return nil, fmt.Errorf("max poll attempts must be positive, got %d", c.maxPollAttempts)
	}
	if c.pollInterval <= 0 || c.pollTimeout <= 0 || c.createTimeout <= 0 {
		return nil, errors.New("timeouts and poll interval must be positive")
	}

	return c, nil
}

// GenerateImage creates a prediction for prompt and resolves it to the first
// output URL. Failures are *domain.Error values for provider outcomes and
// plain errors for transport problems.
func (c *client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	prediction, err := c.createPrediction(ctx, prompt)
	if err != nil {
		return "", err
	}

	// With "Prefer: wait" the result is usually ready already.
	if prediction.Status == PredictionStatusSucceeded {
		if url, ok := prediction.Output.First(); ok {
			return url, nil
		}
	}

	if prediction.URLs.Get != "" {
		prediction, err = c.pollPrediction(ctx, prediction)
		if err != nil {
			return "", fmt.Errorf("polling prediction: %w", err)
		}

		switch prediction.Status {
		case PredictionStatusSucceeded:
			if url, ok := prediction.Output.First(); ok {
				return url, nil
			}
		case PredictionStatusFailed:
			return "", domain.NewUpstreamError(
				"Replicate generation failed: "+lo.CoalesceOrEmpty(prediction.ErrorText(), "unknown error"), nil)
		case PredictionStatusCanceled:
			return "", domain.NewUpstreamError(
				"Replicate generation failed: "+lo.CoalesceOrEmpty(prediction.ErrorText(), PredictionStatusCanceled), nil)
		}
	}

	return "", domain.NewTimeoutError("Generation timed out. Status: " + prediction.Status)
}

func (c *client) createPrediction(ctx context.Context, prompt string) (Prediction, error) {
	var prediction Prediction

	ctx, cancel := context.WithTimeout(ctx, c.createTimeout)
	defer cancel()

	reqBody, err := json.Marshal(CreatePredictionRequest{Input: newFluxInput(prompt)})
	if err != nil {
		return prediction, fmt.Errorf("failed to marshal request: %w", err)
	}

	predictionURL := fmt.Sprintf("%s/models/%s/predictions", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, predictionURL, bytes.NewReader(reqBody))
	if err != nil {
		return prediction, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait") // Wait for the prediction to complete

	statusCode, respBody, err := c.doRequest(req)
	if err != nil {
		c.observer.UpstreamCall("create", "error")
		return prediction, fmt.Errorf("failed to create prediction: %w", err)
	}

	if statusCode < 200 || statusCode >= 300 {
		c.observer.UpstreamCall("create", "rejected")
		slog.ErrorContext(ctx, "Replicate rejected prediction", "status", statusCode, "body", string(respBody))
		return prediction, domain.NewUpstreamError(
			fmt.Sprintf("Replicate %d: %s", statusCode, lo.Substring(errorDetail(respBody), 0, maxDetailLength)), nil)
	}

	if err := json.Unmarshal(respBody, &prediction); err != nil {
		c.observer.UpstreamCall("create", "invalid")
		return prediction, domain.NewUpstreamError(
			"Invalid response from Replicate: "+lo.Substring(string(respBody), 0, maxInvalidLength), err)
	}

	c.observer.UpstreamCall("create", "ok")
	slog.DebugContext(ctx, "Prediction created", "id", prediction.ID, "status", prediction.Status)

	return prediction, nil
}

// pollPrediction fetches the prediction until it reaches a terminal status
// or the attempt budget runs out. The last observed prediction is returned.
func (c *client) pollPrediction(ctx context.Context, prediction Prediction) (Prediction, error) {
	pollURL := prediction.URLs.Get

	// The delay starts after each poll returns, so slow polls never run back to back.
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	attempts := 0
	defer func() { c.observer.PollAttempts(attempts) }()

	for !prediction.terminal() && attempts < c.maxPollAttempts {
		select {
		case <-ctx.Done():
			return prediction, ctx.Err()
		case <-timer.C:
		}

		next, err := c.getPrediction(ctx, pollURL)
		attempts++
		timer.Reset(c.pollInterval)
		if errors.Is(err, errPollAborted) {
			slog.WarnContext(ctx, "Polling stopped", "attempt", attempts, "error", err)
			break
		}
		if err != nil {
			return prediction, err
		}

		prediction = next
		if prediction.URLs.Get != "" {
			pollURL = prediction.URLs.Get
		}
	}

	return prediction, nil
}

func (c *client) getPrediction(ctx context.Context, pollURL string) (Prediction, error) {
	var prediction Prediction

	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return prediction, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	statusCode, respBody, err := c.doRequest(req)
	if err != nil {
		c.observer.UpstreamCall("poll", "error")
		return prediction, fmt.Errorf("failed to get prediction: %w", err)
	}

	if statusCode < 200 || statusCode >= 300 {
		c.observer.UpstreamCall("poll", "rejected")
		return prediction, fmt.Errorf("%w: unexpected status code %d", errPollAborted, statusCode)
	}

	if err := json.Unmarshal(respBody, &prediction); err != nil {
		c.observer.UpstreamCall("poll", "invalid")
		return prediction, fmt.Errorf("%w: %w", errPollAborted, err)
	}

	c.observer.UpstreamCall("poll", "ok")
	return prediction, nil
}

func (c *client) doRequest(req *http.Request) (int, []byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// errorDetail prefers the "detail" field of a JSON error body and falls back
// to the raw body.
func errorDetail(body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err == nil {
		if detail := anyText(e.Detail); detail != "" {
			return detail
		}
	}
	return string(body)
}
