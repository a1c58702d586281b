package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"github.com/forPelevin/vidscope/internal/domain/timecode"
	"github.com/forPelevin/vidscope/internal/types"
)

var ErrNotInstalled = errors.New("ffmpeg not found, please install ffmpeg")

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// CheckBinary reports whether the configured ffmpeg can be found.
func (a *Adapter) CheckBinary() error {
	if _, err := exec.LookPath(a.ffmpeg); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrNotInstalled, a.ffmpeg, err)
	}
	return nil
}

// Trim cuts [spec.Start, spec.End) out of in and writes it to out. Fast mode
// copies streams and may show black frames until the first keyframe; quality
// mode re-encodes to H.264/AAC.
func (a *Adapter) Trim(ctx context.Context, in, out string, spec types.TrimSpec) error {
	if err := a.CheckBinary(); err != nil {
		return err
	}

	lock := flock.New(out + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", out, err)
	}
	if !ok {
		return fmt.Errorf("another run is already writing %s", out)
	}
	// The lock file is never removed, so one inode guards out.
	defer func() { _ = lock.Unlock() }()

	cmd := exec.CommandContext(ctx, a.ffmpeg, TrimArgs(in, out, spec)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg trim: %w\n%s", err, strings.TrimSpace(string(b)))
	}
	return nil
}

// ProbeDuration returns the container duration in seconds.
func (a *Adapter) ProbeDuration(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// TrimArgs builds the ffmpeg argument list for Trim. Seeking happens before
// -i so ffmpeg jumps to the nearest keyframe instead of decoding from zero.
func TrimArgs(in, out string, spec types.TrimSpec) []string {
	args := []string{
		"-ss", timecode.FormatSeconds(spec.Start),
		"-i", in,
		"-t", timecode.FormatSeconds(spec.Duration()),
	}
	if spec.Fast {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			"-c:v", "libx264",
			"-c:a", "aac",
			"-preset", "fast",
			"-crf", "23",
		)
	}
	return append(args,
		"-avoid_negative_ts", "make_zero",
		"-y",
		out,
	)
}
