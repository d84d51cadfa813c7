package prompt

import (
	"strings"

	"github.com/earthback/visualizer/pkg/domain"
	"github.com/samber/lo"
)

const separator = ". "

// Compose builds the text sent to the model. Unknown template keys are
// skipped, so they produce the same prompt as an omitted field.
func Compose(req domain.GenerationRequest) string {
	style := lo.CoalesceOrEmpty(req.Style, domain.DefaultStyle)

	parts := []string{
		Prefix,
		StructureContext[req.Structure],
		ClimateContext[req.Climate],
		strings.TrimSpace(req.Prompt),
		StyleModifiers[style],
	}

	return strings.Join(lo.Compact(parts), separator)
}
