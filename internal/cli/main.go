package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	mode       string
	startTime  string
	endTime    string
	fastTrim   bool
	apiKey     string
	model      string
	output     string
	trimDir    string
	theme      string
	style      string
	scene      string
	context    string
	configPath string
	verbose    bool
}

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	ctx, stop := signalContext()
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM, so deferred cleanup
// (remote file deletion, lock release) runs before exit.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vidscope <video> [prompt]",
		Short: "Analyze a video with Gemini, or generate call-to-action text for it",
		Example: `  vidscope talk.mp4 "summarize the main points"
  vidscope talk.mp4 "what is shown on screen?" --start-time 01:30 --end-time 02:45
  vidscope clip.mov --mode random
  vidscope clip.mov --mode creative --theme contextual --style casual --scene lifestyle`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	f := root.Flags()
	f.StringVar(&opts.mode, "mode", "analysis", "Mode: analysis, random or creative")
	f.StringVar(&opts.startTime, "start-time", "", "Trim start (HH:MM:SS, MM:SS or SS)")
	f.StringVar(&opts.endTime, "end-time", "", "Trim end (HH:MM:SS, MM:SS or SS)")
	f.BoolVar(&opts.fastTrim, "fast-trim", false, "Trim with stream copy (fast, cuts on keyframes)")
	f.StringVar(&opts.apiKey, "api-key", "", "Gemini API key (default: GEMINI_API_KEY)")
	f.StringVar(&opts.model, "model", "", "Gemini model (default: GEMINI_MODEL or gemini-2.5-pro)")
	f.StringVarP(&opts.output, "output", "o", "", "Save the result to this file")
	f.StringVar(&opts.trimDir, "trim-dir", "", "Directory for trimmed clips (default: current directory)")
	f.StringVar(&opts.theme, "theme", "", "Creative theme: cta or contextual")
	f.StringVar(&opts.style, "style", "", "Creative style, see `vidscope styles`")
	f.StringVar(&opts.scene, "scene", "", "Creative scene type (default: random)")
	f.StringVar(&opts.context, "context", "", "Free-form hint for creative text")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: VIDSCOPE_CONFIG or ~/.config/vidscope/config.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newStylesCommand())
	root.AddCommand(newConfigCommand(opts))
	return root
}
