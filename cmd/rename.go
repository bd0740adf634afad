package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	apprename "romkit/application/rename"
	"romkit/domain/naming"
	"romkit/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	renameMaxLength int
	renameDryRun    bool
)

var renameCmd = &cobra.Command{
	Use:   "rename [root]",
	Short: "Clean file names for length-limited filesystems",
	Long: `Recursively rename files so they fit a FATX style filesystem:

  - Drop [tags] and (region/language/revision) groups from dump names
  - Transliterate accents and replace unsafe characters
  - Limit the name, extension included, to --max-length characters
  - Add _1, _2... when the cleaned name is taken, ignoring letter case

Hidden files are left alone.

Example:
  romkit rename ~/roms
  romkit rename . --max-length 36 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().IntVar(&renameMaxLength, "max-length", naming.DefaultMaxLength, "Maximum file name length including the extension (default from config)")
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "Show the new names without renaming")
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	maxLength := cfg.Rename.MaxLength
	if cmd.Flags().Changed("max-length") {
		maxLength = renameMaxLength
	}

	return RunRenameWithDependencies(
		cmd.Context(),
		filesystem.NewChecker(filesystem.WithFoldCase()),
		apprename.Input{
			Root:      rootArg(args),
			MaxLength: maxLength,
			DryRun:    renameDryRun,
		},
		noColor,
		os.Stdout,
	)
}

// RunRenameWithDependencies runs the rename command with injected dependencies (for testing)
func RunRenameWithDependencies(
	ctx context.Context,
	fileChecker naming.FileChecker,
	input apprename.Input,
	noColor bool,
	output OutputWriter,
) error {
	if input.MaxLength < 1 {
		return fmt.Errorf("max length must be positive, got %d", input.MaxLength)
	}

	service := apprename.NewService(fileChecker, newPrinter(output, noColor))

	result, err := service.Rename(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintf(output, "ERROR: %v\n", err)
		return nil
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Done! %d of %d file names cleaned and limited to %d chars", result.Renamed, result.Scanned, input.MaxLength)
	if input.DryRun {
		fmt.Fprint(output, " (dry-run)")
	}
	fmt.Fprintln(output)
	if result.Errors > 0 {
		fmt.Fprintf(output, "Errors: %d\n", result.Errors)
	}
	return nil
}
