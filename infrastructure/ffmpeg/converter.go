package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"romkit/domain/audio"
	"romkit/infrastructure/command"
)

// Converter implements audio.Converter using ffmpeg
type Converter struct {
	ffmpegPath string
	runner     command.Runner
}

// ConverterOption is a functional option for configuring Converter
type ConverterOption func(*Converter)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) ConverterOption {
	return func(c *Converter) {
		if path != "" {
			c.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner command.Runner) ConverterOption {
	return func(c *Converter) {
		c.runner = runner
	}
}

// NewConverter creates a new FFmpeg-based WAV converter
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		ffmpegPath: "ffmpeg",
		runner:     &command.ExecRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Args returns the ffmpeg command line for req
func (c *Converter) Args(req *audio.ConversionRequest) []string {
	overwrite := "-n"
	if req.Overwrite {
		overwrite = "-y"
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		overwrite,
		"-i", req.SourcePath,
		"-vn",                  // No video
		"-acodec", "pcm_s16le", // 16-bit PCM
		"-ac", strconv.Itoa(req.Channels),
	}
	if req.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(req.SampleRate))
	}

	return append(args, req.OutputPath)
}

// Convert implements audio.Converter
func (c *Converter) Convert(ctx context.Context, req *audio.ConversionRequest) error {
	if err := c.runner.Run(ctx, c.ffmpegPath, c.Args(req)...); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}
	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (c *Converter) VerifyInstalled(ctx context.Context) error {
	_, err := c.runner.Output(ctx, c.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Converter implements audio.Converter
var _ audio.Converter = (*Converter)(nil)
