package llm

import "context"

// ImageGenerator turns a composed prompt into the URL of a generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
