package api

import (
	"log/slog"
	"net/http"

	"github.com/earthback/visualizer/pkg/llm"
)

type RouterOptions struct {
	ExposePrompt bool
	Logger       *slog.Logger
	Observer     RequestObserver
}

// NewRouter serves the vision handler on every path, without path cleaning
// redirects.
func NewRouter(generator llm.ImageGenerator, opts RouterOptions) http.Handler {
	return Chain(GenerateVision(generator, opts.ExposePrompt),
		Headers(),
		RequestID(),
		Logging(opts.Logger, opts.Observer),
		Recovery(),
	)
}
