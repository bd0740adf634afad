//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	appextract "romkit/application/extract"
	"romkit/cmd"
	"romkit/infrastructure/filesystem"
	"romkit/infrastructure/unpack"

	"github.com/cucumber/godog"
)

// noToolsRunner implements command.Runner for a machine without external
// extractors, so fallbacks never depend on the host
type noToolsRunner struct{}

func (noToolsRunner) Run(ctx context.Context, name string, args ...string) error {
	return fmt.Errorf("%s is not installed", name)
}

func (noToolsRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, fmt.Errorf("%s is not installed", name)
}

func (noToolsRunner) LookPath(name string) (string, error) {
	return "", os.ErrNotExist
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run extract on the collection$`, iRunExtractOnTheCollection)
	ctx.Step(`^I run extract on the collection with delete$`, iRunExtractOnTheCollectionWithDelete)
	ctx.Step(`^I run extract on a missing folder$`, iRunExtractOnAMissingFolder)
	ctx.Step(`^the summary should report (\d+) archives, (\d+) files and (\d+) errors$`, theSummaryShouldReport)
	ctx.Step(`^the summary should report (\d+) skipped volumes$`, theSummaryShouldReportSkippedVolumes)
}

func runExtract(root string, del bool) error {
	c := getCollectionContext()
	registry := unpack.NewRegistry(unpack.DefaultTools(), noToolsRunner{})

	c.err = cmd.RunExtractWithDependencies(
		context.Background(),
		registry,
		filesystem.NewChecker(),
		appextract.Input{Root: root, Delete: del},
		true,
		c.output,
	)
	return c.err
}

func iRunExtractOnTheCollection() error {
	return runExtract(getCollectionContext().root, false)
}

func iRunExtractOnTheCollectionWithDelete() error {
	return runExtract(getCollectionContext().root, true)
}

func iRunExtractOnAMissingFolder() error {
	dir, err := os.MkdirTemp("", "romkit-missing-*")
	if err != nil {
		return err
	}
	os.RemoveAll(dir)
	return runExtract(filepath.Join(dir, "nowhere"), false)
}

func theSummaryShouldReport(archives, files, errors int) error {
	if err := theOutputShouldMention(fmt.Sprintf("archives processed=%d, files extracted=%d ", archives, files)); err != nil {
		return err
	}
	return theOutputShouldMention(fmt.Sprintf("errors=%d,", errors))
}

func theSummaryShouldReportSkippedVolumes(skipped int) error {
	return theOutputShouldMention(fmt.Sprintf("skipped volumes=%d", skipped))
}
