package replicate

const DefaultModel = "black-forest-labs/flux-schnell"

const (
	DefaultNumOutputs    = 1
	DefaultAspectRatio   = "4:3"
	DefaultOutputFormat  = "webp"
	DefaultOutputQuality = 90
)

func newFluxInput(prompt string) FluxInput {
	return FluxInput{
		Prompt:        prompt,
		NumOutputs:    DefaultNumOutputs,
		AspectRatio:   DefaultAspectRatio,
		OutputFormat:  DefaultOutputFormat,
		OutputQuality: DefaultOutputQuality,
	}
}
