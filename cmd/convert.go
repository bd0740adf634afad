package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	appconvert "romkit/application/convert"
	"romkit/domain/audio"
	"romkit/domain/naming"
	"romkit/infrastructure/ffmpeg"
	"romkit/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	convertKeep       bool
	convertOverwrite  bool
	convertDryRun     bool
	convertSampleRate int
	convertChannels   int
)

var convertCmd = &cobra.Command{
	Use:   "convert [root]",
	Short: "Convert audio files to WAV and remove the originals",
	Long: `Recursively convert audio files (.mp3 .m4a .aac .flac .ogg .opus .wma
.wv .aif .aiff .aifc .mp2 .ac3 .mka .mkv .mp4 .m4b) to 16-bit PCM WAV
with ffmpeg. An original is deleted only after the WAV exists and its
duration matches the source.

Example:
  romkit convert ~/music
  romkit convert . --overwrite
  romkit convert ~/music --keep --sample-rate 48000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertKeep, "keep", false, "Keep originals (do not delete after conversion)")
	convertCmd.Flags().BoolVar(&convertOverwrite, "overwrite", false, "Overwrite existing .wav files")
	convertCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Show what would happen, make no changes")
	convertCmd.Flags().IntVar(&convertSampleRate, "sample-rate", 0, "Resample to N Hz (default from config; 0 keeps the source rate)")
	convertCmd.Flags().IntVar(&convertChannels, "channels", audio.DefaultChannels, "Number of output channels (default from config)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	sampleRate := cfg.Convert.SampleRate
	if cmd.Flags().Changed("sample-rate") {
		sampleRate = convertSampleRate
	}
	channels := cfg.Convert.Channels
	if cmd.Flags().Changed("channels") {
		channels = convertChannels
	}

	converter := ffmpeg.NewConverter(ffmpeg.WithFFmpegPath(cfg.Tools.FFmpeg))
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobe))

	return RunConvertWithDependencies(
		cmd.Context(),
		converter,
		prober,
		filesystem.NewChecker(),
		appconvert.Input{
			Root:              rootArg(args),
			Keep:              convertKeep,
			Overwrite:         convertOverwrite,
			DryRun:            convertDryRun,
			SampleRate:        sampleRate,
			Channels:          channels,
			DurationTolerance: cfg.Convert.DurationTolerance,
		},
		noColor,
		os.Stdout,
	)
}

// RunConvertWithDependencies runs the convert command with injected dependencies (for testing)
func RunConvertWithDependencies(
	ctx context.Context,
	converter audio.Converter,
	prober audio.DurationProber,
	fileChecker naming.FileChecker,
	input appconvert.Input,
	noColor bool,
	output OutputWriter,
) error {
	// Verify ffmpeg and ffprobe are available if the adapters support it
	for _, dep := range []any{converter, prober} {
		verifiable, ok := dep.(interface{ VerifyInstalled(context.Context) error })
		if !ok {
			continue
		}
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := verifiable.VerifyInstalled(verifyCtx)
		cancel()
		if err != nil {
			fmt.Fprintf(output, "ERROR: %v. Install ffmpeg and try again.\n", err)
			return nil
		}
	}

	if input.SampleRate < 0 {
		return fmt.Errorf("sample rate must not be negative, got %d", input.SampleRate)
	}
	if input.Channels < 1 {
		return fmt.Errorf("channels must be positive, got %d", input.Channels)
	}

	service := appconvert.NewService(converter, prober, fileChecker, newPrinter(output, noColor))

	result, err := service.Convert(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintf(output, "ERROR: %v\n", err)
		return nil
	}

	dryRun := ""
	if input.DryRun && !input.Keep {
		dryRun = " (dry-run)"
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "=== Summary ===")
	fmt.Fprintf(output, "Converted: %d\n", result.Converted)
	fmt.Fprintf(output, "Deleted originals: %d%s\n", result.Deleted, dryRun)
	fmt.Fprintf(output, "Skipped: %d\n", result.Skipped)
	fmt.Fprintf(output, "Errors: %d\n", result.Errors)
	return nil
}
