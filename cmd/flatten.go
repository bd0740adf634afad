package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	appflatten "romkit/application/flatten"
	"romkit/domain/naming"
	"romkit/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	flattenDryRun bool
	flattenPrune  bool
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [root]",
	Short: "Move every file from subfolders into the root folder",
	Long: `Move all files found below the subfolders of root into root itself.
Duplicate names get _1, _2... suffixes. Hidden files, hidden folders and
venv folders are skipped; files already in root stay put.

Example:
  romkit flatten ~/roms/pack
  romkit flatten . --prune`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().BoolVar(&flattenDryRun, "dry-run", false, "Show the moves without touching files")
	flattenCmd.Flags().BoolVar(&flattenPrune, "prune", false, "Remove folders left empty")
}

func runFlatten(cmd *cobra.Command, args []string) error {
	return RunFlattenWithDependencies(
		cmd.Context(),
		filesystem.NewChecker(),
		appflatten.Input{
			Root:   rootArg(args),
			DryRun: flattenDryRun,
			Prune:  flattenPrune,
		},
		noColor,
		os.Stdout,
	)
}

// RunFlattenWithDependencies runs the flatten command with injected dependencies (for testing)
func RunFlattenWithDependencies(
	ctx context.Context,
	fileChecker naming.FileChecker,
	input appflatten.Input,
	noColor bool,
	output OutputWriter,
) error {
	service := appflatten.NewService(fileChecker, newPrinter(output, noColor))

	result, err := service.Flatten(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintf(output, "ERROR: %v\n", err)
		return nil
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Done! %d files moved", result.Moved)
	if input.DryRun {
		fmt.Fprint(output, " (dry-run)")
	}
	fmt.Fprintln(output)
	if input.Prune {
		fmt.Fprintf(output, "Pruned folders: %d\n", result.Pruned)
	}
	if result.Errors > 0 {
		fmt.Fprintf(output, "Errors: %d\n", result.Errors)
	}
	return nil
}
