package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/earthback/visualizer/pkg/domain"
	"github.com/earthback/visualizer/pkg/llm"
	"github.com/earthback/visualizer/pkg/prompt"
)

const maxRequestBytes = 64 << 10

// GenerateVision answers vision requests. A nil generator means the provider
// token is not configured; POST requests then fail without any outbound call.
func GenerateVision(generator llm.ImageGenerator, exposePrompt bool) http.HandlerFunc {
	decodeRequest := func(w http.ResponseWriter, r *http.Request) (domain.GenerationRequest, error) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("reading request body: %w", err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			body = []byte("{}")
		}

		req, err := domain.ParseGenerationRequest(body)
		if err != nil {
			return req, fmt.Errorf("parsing request body: %w", err)
		}

		return req, nil
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodPost:
		default:
			writeError(ctx, w, domain.NewMethodError())
			return
		}

		if generator == nil {
			writeError(ctx, w, domain.NewConfigError(domain.MsgMissingToken))
			return
		}

		req, err := decodeRequest(w, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		if err := req.Validate(); err != nil {
			writeError(ctx, w, err)
			return
		}

		fullPrompt := prompt.Compose(req)

		slog.InfoContext(ctx, "Generating vision",
			"structure", req.Structure, "climate", req.Climate, "style", req.Style, "promptLength", len(fullPrompt))

		imageURL, err := generator.GenerateImage(ctx, fullPrompt)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		result := domain.GenerationResult{ImageURL: imageURL}
		if exposePrompt {
			result.PromptUsed = fullPrompt
		}

		writeJSON(ctx, w, http.StatusOK, result)
	}
}
