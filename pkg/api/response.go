package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/earthback/visualizer/pkg/domain"
	"github.com/earthback/visualizer/pkg/logger"
)

var responseHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Content-Type":                 "application/json",
}

func setResponseHeaders(h http.Header) {
	for k, v := range responseHeaders {
		h.Set(k, v)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.WarnContext(ctx, "Writing response failed", logger.Err(err))
	}
}

// writeError answers with the status and message of err's domain kind.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	de := domain.AsError(err)
	status := de.HTTPStatus()

	if status >= http.StatusInternalServerError {
		attrs := []any{"status", status, logger.Err(de)}
		if cause := errors.Unwrap(de); cause != nil {
			attrs = append(attrs, "cause", cause.Error())
		}
		slog.ErrorContext(ctx, "Vision request failed", attrs...)
	}

	writeJSON(ctx, w, status, domain.ErrorResponse{Error: de.Message})
}
