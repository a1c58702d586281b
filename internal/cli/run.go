package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forPelevin/vidscope/internal/config"
	"github.com/forPelevin/vidscope/internal/pipeline"
	"github.com/forPelevin/vidscope/internal/types"
)

func run(cmd *cobra.Command, args []string, opts *rootOptions) error {
	input := args[0]
	prompt := ""
	if len(args) > 1 {
		prompt = args[1]
	}

	mode, ok := types.ParseMode(opts.mode)
	if !ok {
		return fmt.Errorf("unknown --mode %q (want analysis, random or creative)", opts.mode)
	}

	fileCfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	log := newLogger(stderr, opts.verbose, useColor(stderr))
	defer func() { _ = log.Sync() }()

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	trimDir := firstNonEmpty(opts.trimDir, fileCfg.Output.TrimDir)
	cfg := pipeline.Config{
		InputPath:  absIn,
		Mode:       mode,
		Prompt:     prompt,
		StartTime:  opts.startTime,
		EndTime:    opts.endTime,
		FastTrim:   opts.fastTrim,
		TrimDir:    trimDir,
		OutputPath: opts.output,
		Creative: types.CreativeRequest{
			Theme:   opts.theme,
			Style:   opts.style,
			Scene:   opts.scene,
			Context: opts.context,
		},

		FFmpegPath:  fileCfg.FFmpeg.FFmpegPath,
		FFprobePath: fileCfg.FFmpeg.FFprobePath,

		GeminiAPIKey:       firstNonEmpty(opts.apiKey, fileCfg.Gemini.APIKey),
		GeminiModel:        firstNonEmpty(opts.model, fileCfg.Gemini.Model),
		GeminiBaseURL:      fileCfg.Gemini.BaseURL,
		GeminiAllowedHosts: fileCfg.Gemini.AllowedHosts,
		PollInterval:       time.Duration(fileCfg.Gemini.PollIntervalSeconds) * time.Second,

		Log:    log,
		Stdout: cmd.OutOrStdout(),
	}
	if isTerminal(stderr) {
		cfg.Progress = stderr
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	timeout := time.Duration(fileCfg.Gemini.RequestTimeoutMinutes) * time.Minute
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	log.Debug("starting run",
		zap.String("input", absIn),
		zap.String("mode", string(mode)),
		zap.String("model", cfg.GeminiModel),
		zap.Duration("timeout", timeout),
	)
	_, err = pipeline.Run(ctx, cfg)
	return err
}

// loadConfig reads --config, then VIDSCOPE_CONFIG, then the default path.
// Environment variables override file values.
func loadConfig(flagPath string) (*config.Config, error) {
	path := firstNonEmpty(flagPath, os.Getenv("VIDSCOPE_CONFIG"))
	cfg, _, _, err := config.Load(path, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func useColor(w io.Writer) bool {
	if noColor() {
		return false
	}
	return isTerminal(w)
}

// noColor follows no-color.org: set and non-empty.
func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
