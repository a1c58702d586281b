package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/forPelevin/vidscope/internal/domain/phrases"
	"github.com/forPelevin/vidscope/internal/ports"
	"github.com/forPelevin/vidscope/internal/types"
)

type Deps struct {
	Video    ports.Trimmer
	Probe    ports.Prober // optional
	Analyzer ports.VideoAnalyzer
	Rand     *rand.Rand
	Log      *zap.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return Usecase{d: d}
}

type Input struct {
	VideoPath string
	Mode      types.Mode
	Prompt    string
	Trim      *types.TrimSpec
	TrimDir   string
	Creative  types.CreativeRequest
}

// Run trims the input when a window is set, then produces the text for the
// selected mode. Only analysis mode looks at the video content.
func (u Usecase) Run(ctx context.Context, in Input) (types.Result, error) {
	res := types.Result{Mode: in.Mode}

	source := in.VideoPath
	if in.Trim != nil {
		out, err := u.trim(ctx, in)
		if err != nil {
			return res, err
		}
		res.TrimmedPath = out
		source = out
	}

	switch in.Mode {
	case types.ModeAnalysis:
		if u.d.Analyzer == nil {
			return res, errors.New("analysis mode requires an analyzer")
		}
		u.d.Log.Info("analyzing video", zap.String("path", source))
		text, err := u.d.Analyzer.Analyze(ctx, source, in.Prompt)
		if err != nil {
			return res, fmt.Errorf("analyze video: %w", err)
		}
		res.Text = text
	case types.ModeRandom:
		u.d.Log.Info("generating random call-to-action phrase")
		res.Text = phrases.RandomCTA(u.d.Rand)
	case types.ModeCreative:
		u.d.Log.Info("generating creative text",
			zap.String("theme", in.Creative.Theme),
			zap.String("style", in.Creative.Style),
		)
		res.Text = phrases.Creative(u.d.Rand, in.Creative)
	default:
		return res, fmt.Errorf("unknown mode %q", in.Mode)
	}
	return res, nil
}

func (u Usecase) trim(ctx context.Context, in Input) (string, error) {
	if u.d.Video == nil {
		return "", errors.New("trimming requires a video tool")
	}
	spec := *in.Trim

	dir := in.TrimDir
	if dir == "" {
		dir = "."
	}
	// Absolute so a stem starting with "-" is never read as an ffmpeg option.
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve trim dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create trim dir: %w", err)
	}
	out := filepath.Join(dir, trimmedName(in.VideoPath, spec))

	u.warnPastEnd(ctx, in.VideoPath, spec)

	fields := []zap.Field{
		zap.Float64("start_sec", spec.Start),
		zap.Float64("end_sec", spec.End),
		zap.Bool("fast", spec.Fast),
	}
	if spec.Fast {
		u.d.Log.Info("trimming video (stream copy)", fields...)
	} else {
		u.d.Log.Info("trimming video (re-encoding to avoid black frames, this may take longer)", fields...)
	}
	if err := u.d.Video.Trim(ctx, in.VideoPath, out, spec); err != nil {
		return "", err
	}
	u.d.Log.Info("trimmed video saved; delete it manually if not needed", zap.String("path", out))
	return out, nil
}

// warnPastEnd flags windows that run past the end of the input. ffmpeg still
// produces a shorter clip in that case, so it is not an error.
func (u Usecase) warnPastEnd(ctx context.Context, path string, spec types.TrimSpec) {
	if u.d.Probe == nil {
		return
	}
	dur, err := u.d.Probe.ProbeDuration(ctx, path)
	if err != nil {
		u.d.Log.Debug("probe duration", zap.Error(err))
		return
	}
	if spec.Start >= dur {
		u.d.Log.Warn("trim start is past the end of the video", zap.Float64("start_sec", spec.Start), zap.Float64("duration_sec", dur))
		return
	}
	if spec.End > dur {
		u.d.Log.Warn("trim end is past the end of the video; clip will be shorter", zap.Float64("end_sec", spec.End), zap.Float64("duration_sec", dur))
	}
}

// trimmedName names the clip cut from in: "<stem>_trimmed_<start>s_to_<end>s<ext>",
// with the bounds truncated to whole seconds.
func trimmedName(in string, spec types.TrimSpec) string {
	base := filepath.Base(in)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_trimmed_%ds_to_%ds%s", stem, int64(spec.Start), int64(spec.End), ext)
}
