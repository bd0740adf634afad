package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	appextract "romkit/application/extract"
	"romkit/domain/archive"
	"romkit/domain/naming"
	"romkit/infrastructure/command"
	"romkit/infrastructure/filesystem"
	"romkit/infrastructure/unpack"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	extractPassword string
	extractDelete   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [root]",
	Short: "Extract every archive under a directory in place",
	Long: `Walk a directory tree and extract every archive into the directory that
holds it. Archive folders are flattened: each member is written under its
base name, and an existing file is never overwritten (name_1.ext, name_2.ext...).

Supported: .zip, .rar (including .partN.rar and .rNN sets, opened from the
first volume), .7z, .tar, .tgz, .gz, .bz2, .xz. When the built-in reader
fails, 7z, unrar, bsdtar or tar is tried if installed.

Failures are reported per archive and counted in the summary; the run
always finishes.

Example:
  romkit extract
  romkit extract ~/roms --delete
  romkit extract ~/roms -p secret`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractPassword, "password", "p", "", "Password for encrypted archives")
	extractCmd.Flags().BoolVar(&extractDelete, "delete", false, "Delete archives (all volumes for RAR sets) after successful extraction")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	registry := unpack.NewRegistry(cfg.UnpackTools(), &command.ExecRunner{})

	return RunExtractWithDependencies(
		cmd.Context(),
		registry,
		filesystem.NewChecker(),
		appextract.Input{
			Root:     rootArg(args),
			Password: extractPassword,
			Delete:   extractDelete,
		},
		noColor,
		os.Stdout,
	)
}

// rootArg returns the optional positional directory, defaulting to "."
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// RunExtractWithDependencies runs the extract command with injected dependencies (for testing)
func RunExtractWithDependencies(
	ctx context.Context,
	backends archive.BackendProvider,
	fileChecker naming.FileChecker,
	input appextract.Input,
	noColor bool,
	output OutputWriter,
) error {
	printer := newPrinter(output, noColor)
	walker := appextract.NewWalker(backends, fileChecker, printer)

	summary, err := walker.Walk(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintf(output, "ERROR: %v\n", err)
		return nil
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Summary: archives processed=%d, files extracted=%d (%s), errors=%d, warnings=%d, skipped volumes=%d\n",
		summary.Archives,
		summary.Files,
		humanize.Bytes(uint64(summary.Bytes)),
		summary.Errors,
		summary.Warnings,
		summary.Skipped,
	)
	return nil
}
