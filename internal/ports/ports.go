package ports

import (
	"context"

	"github.com/forPelevin/vidscope/internal/types"
)

type Trimmer interface {
	Trim(ctx context.Context, in, out string, spec types.TrimSpec) error
}

type VideoAnalyzer interface {
	Analyze(ctx context.Context, videoPath, prompt string) (string, error)
}

type Prober interface {
	ProbeDuration(ctx context.Context, videoPath string) (float64, error)
}
