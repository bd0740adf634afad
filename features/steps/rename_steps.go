//go:build integration

package steps

import (
	"context"
	"fmt"

	apprename "romkit/application/rename"
	"romkit/cmd"
	"romkit/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

func InitializeRenameScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run rename on the collection with max length (\d+)$`, iRunRenameOnTheCollectionWithMaxLength)
	ctx.Step(`^I run a rename dry run on the collection$`, iRunARenameDryRunOnTheCollection)
	ctx.Step(`^(\d+) file names should be reported as cleaned$`, fileNamesShouldBeReportedAsCleaned)
}

func runRename(maxLength int, dryRun bool) error {
	c := getCollectionContext()
	c.err = cmd.RunRenameWithDependencies(
		context.Background(),
		filesystem.NewChecker(filesystem.WithFoldCase()),
		apprename.Input{Root: c.root, MaxLength: maxLength, DryRun: dryRun},
		true,
		c.output,
	)
	return c.err
}

func iRunRenameOnTheCollectionWithMaxLength(maxLength int) error {
	return runRename(maxLength, false)
}

func iRunARenameDryRunOnTheCollection() error {
	return runRename(42, true)
}

func fileNamesShouldBeReportedAsCleaned(count int) error {
	return theOutputShouldMention(fmt.Sprintf("Done! %d of", count))
}
