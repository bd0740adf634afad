//go:build integration

package steps

import (
	"context"
	"fmt"

	appflatten "romkit/application/flatten"
	"romkit/cmd"
	"romkit/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

func InitializeFlattenScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run flatten on the collection$`, iRunFlattenOnTheCollection)
	ctx.Step(`^I run flatten on the collection with prune$`, iRunFlattenOnTheCollectionWithPrune)
	ctx.Step(`^(\d+) files should be reported as moved$`, filesShouldBeReportedAsMoved)
}

func runFlatten(prune bool) error {
	c := getCollectionContext()
	c.err = cmd.RunFlattenWithDependencies(
		context.Background(),
		filesystem.NewChecker(),
		appflatten.Input{Root: c.root, Prune: prune},
		true,
		c.output,
	)
	return c.err
}

func iRunFlattenOnTheCollection() error {
	return runFlatten(false)
}

func iRunFlattenOnTheCollectionWithPrune() error {
	return runFlatten(true)
}

func filesShouldBeReportedAsMoved(count int) error {
	return theOutputShouldMention(fmt.Sprintf("Done! %d files moved", count))
}
