package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/forPelevin/vidscope/internal/domain/phrases"
	"github.com/forPelevin/vidscope/internal/domain/timecode"
	"github.com/forPelevin/vidscope/internal/ports"
	"github.com/forPelevin/vidscope/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/vidscope/internal/ports/adapters/gemini"
	"github.com/forPelevin/vidscope/internal/types"
	"github.com/forPelevin/vidscope/internal/usecase"
)

type Config struct {
	InputPath  string
	Mode       types.Mode
	Prompt     string
	StartTime  string
	EndTime    string
	FastTrim   bool
	TrimDir    string
	OutputPath string
	Creative   types.CreativeRequest

	FFmpegPath  string
	FFprobePath string

	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	GeminiAllowedHosts []string
	PollInterval       time.Duration

	Log *zap.Logger
	// Stdout receives the result block. Defaults to os.Stdout.
	Stdout io.Writer
	// Progress receives status poll dots; nil disables them.
	Progress io.Writer
	Rand     *rand.Rand

	// newAnalyzer replaces the Gemini adapter in tests.
	newAnalyzer func(ctx context.Context, c Config) (ports.VideoAnalyzer, error)
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".wmv": {}, ".flv": {},
	".webm": {}, ".m4v": {}, ".3gp": {}, ".mpg": {}, ".mpeg": {},
}

type plan struct {
	trim     *types.TrimSpec
	creative types.CreativeRequest
}

func (c Config) Validate() error {
	_, err := c.prepare()
	return err
}

// prepare checks the configuration in the order the checks are reported to
// the user: prompt, trim bounds, input file, then mode-specific settings.
func (c Config) prepare() (plan, error) {
	var p plan

	if _, ok := types.ParseMode(string(c.Mode)); !ok {
		return p, fmt.Errorf("unknown mode %q (want analysis, random or creative)", c.Mode)
	}
	if c.Mode == types.ModeAnalysis && strings.TrimSpace(c.Prompt) == "" {
		return p, errors.New("prompt is required for analysis mode (or use --mode random)")
	}

	trim, err := timecode.ParseRange(c.StartTime, c.EndTime, c.FastTrim)
	if err != nil {
		return p, err
	}
	p.trim = trim

	if c.InputPath == "" {
		return p, errors.New("input is empty")
	}
	st, err := os.Stat(c.InputPath)
	if err != nil {
		return p, fmt.Errorf("stat input: %w", err)
	}
	if !st.Mode().IsRegular() {
		return p, fmt.Errorf("input %s is not a file", c.InputPath)
	}

	switch c.Mode {
	case types.ModeAnalysis:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return p, errors.New("gemini API key not found: set GEMINI_API_KEY or pass --api-key")
		}
		if err := gemini.ValidateBaseURL(c.GeminiBaseURL, c.GeminiAllowedHosts); err != nil {
			return p, err
		}
	case types.ModeCreative:
		req, err := phrases.Normalize(c.Creative)
		if err != nil {
			return p, err
		}
		p.creative = req
	}
	return p, nil
}

// IsKnownVideoExt reports whether path has one of the common video container
// extensions.
func IsKnownVideoExt(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func supportedExtensions() string {
	out := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

func Run(ctx context.Context, cfg Config) (types.Result, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	p, err := cfg.prepare()
	if err != nil {
		return types.Result{}, fmt.Errorf("config: %w", err)
	}
	if p.trim != nil {
		log.Info("video will be trimmed",
			zap.String("start", cfg.StartTime),
			zap.String("end", cfg.EndTime),
		)
	}
	if !IsKnownVideoExt(cfg.InputPath) {
		log.Warn("input may not be a video file",
			zap.String("path", cfg.InputPath),
			zap.String("supported", supportedExtensions()),
		)
	}

	// adapters
	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	deps := usecase.Deps{
		Video: video,
		Probe: video,
		Rand:  cfg.Rand,
		Log:   log,
	}
	if cfg.Mode == types.ModeAnalysis {
		newAnalyzer := cfg.newAnalyzer
		if newAnalyzer == nil {
			newAnalyzer = newGeminiAnalyzer
		}
		an, err := newAnalyzer(ctx, cfg)
		if err != nil {
			return types.Result{}, fmt.Errorf("set up gemini: %w", err)
		}
		deps.Analyzer = an
	}

	res, err := usecase.New(deps).Run(ctx, usecase.Input{
		VideoPath: cfg.InputPath,
		Mode:      cfg.Mode,
		Prompt:    cfg.Prompt,
		Trim:      p.trim,
		TrimDir:   cfg.TrimDir,
		Creative:  p.creative,
	})
	if err != nil {
		return res, err
	}

	if _, err := io.WriteString(stdout, RenderResult(res)); err != nil {
		return res, fmt.Errorf("print result: %w", err)
	}

	if cfg.OutputPath != "" {
		report := RenderReport(cfg.InputPath, cfg.Prompt, p.creative, res)
		if err := writeReport(cfg.OutputPath, report); err != nil {
			return res, err
		}
		fmt.Fprintf(stdout, "\nResults saved to: %s\n", cfg.OutputPath)
	}
	return res, nil
}

func newGeminiAnalyzer(ctx context.Context, c Config) (ports.VideoAnalyzer, error) {
	return gemini.New(ctx, gemini.Options{
		APIKey:       c.GeminiAPIKey,
		Model:        c.GeminiModel,
		BaseURL:      c.GeminiBaseURL,
		PollInterval: c.PollInterval,
		Logger:       c.Log,
		Progress:     c.Progress,
	})
}

// ensure adapters implement ports
var _ ports.Trimmer = (*ffmpeg.Adapter)(nil)
var _ ports.Prober = (*ffmpeg.Adapter)(nil)
var _ ports.VideoAnalyzer = (*gemini.Adapter)(nil)
