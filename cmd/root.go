package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"romkit/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "romkit",
	Short: "Batch tools for a local ROM and media collection",
	Long: `romkit tidies a local ROM and media collection in place:

  - Extract every archive under a directory (zip, rar sets, 7z, tar/gz/bz2/xz)
  - Convert audio files to 16-bit PCM WAV
  - Clean file names for FATX style length and character limits
  - Flatten nested folders into a single directory

Example:
  romkit extract ~/roms --delete`,
	SilenceUsage: true,
}

// Execute runs the root command; an interrupt cancels the running command
// between files.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file; built-in defaults are used when it does not exist")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func initConfig() {
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
