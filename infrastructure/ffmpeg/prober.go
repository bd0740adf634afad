package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"romkit/domain/audio"
	"romkit/infrastructure/command"
)

// Prober implements audio.DurationProber using ffprobe
type Prober struct {
	ffprobePath string
	runner      command.Runner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if path != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner command.Runner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based duration prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &command.ExecRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Duration implements audio.DurationProber. Any probe failure or
// unparsable output is reported as unknown.
func (p *Prober) Duration(ctx context.Context, path string) (float64, bool) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return seconds, true
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	_, err := p.runner.Output(ctx, p.ffprobePath, "-version")
	if err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Ensure Prober implements audio.DurationProber
var _ audio.DurationProber = (*Prober)(nil)
