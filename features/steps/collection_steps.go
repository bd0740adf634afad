//go:build integration

package steps

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

// collectionContext holds the temp folder and command output shared by the
// extract, rename and flatten scenarios
type collectionContext struct {
	root   string
	output *bytes.Buffer
	err    error
}

// SharedCollectionContext is reset before each scenario via Before hook
var SharedCollectionContext *collectionContext

func getCollectionContext() *collectionContext {
	return SharedCollectionContext
}

func InitializeCollectionScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedCollectionContext = &collectionContext{output: &bytes.Buffer{}}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if cc := getCollectionContext(); cc != nil && cc.root != "" {
			os.RemoveAll(cc.root)
		}
		SharedCollectionContext = nil
		return c, nil
	})

	ctx.Step(`^a collection folder$`, aCollectionFolder)
	ctx.Step(`^a file "([^"]*)" with content "([^"]*)"$`, aFileWithContent)
	ctx.Step(`^empty files "([^"]*)"$`, emptyFiles)
	ctx.Step(`^a zip "([^"]*)" containing:$`, aZipContaining)
	ctx.Step(`^the collection should contain "([^"]*)" with content "([^"]*)"$`, theCollectionShouldContainWithContent)
	ctx.Step(`^the collection should contain "([^"]*)"$`, theCollectionShouldContain)
	ctx.Step(`^the collection should not contain "([^"]*)"$`, theCollectionShouldNotContain)
	ctx.Step(`^the output should mention "([^"]*)"$`, theOutputShouldMention)
	ctx.Step(`^the output should not mention "([^"]*)"$`, theOutputShouldNotMention)
}

func aCollectionFolder() error {
	c := getCollectionContext()
	dir, err := os.MkdirTemp("", "romkit-collection-*")
	if err != nil {
		return err
	}
	c.root = dir
	return nil
}

func writeCollectionFile(name string, content []byte) error {
	c := getCollectionContext()
	path := filepath.Join(c.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func aFileWithContent(name, content string) error {
	return writeCollectionFile(name, []byte(content))
}

func emptyFiles(list string) error {
	for _, name := range strings.Split(list, ",") {
		if err := writeCollectionFile(strings.TrimSpace(name), nil); err != nil {
			return err
		}
	}
	return nil
}

func aZipContaining(name string, table *godog.Table) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		w, err := zw.Create(row.Cells[0].Value)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, row.Cells[1].Value); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	return writeCollectionFile(name, buf.Bytes())
}

func theCollectionShouldContainWithContent(name, expected string) error {
	c := getCollectionContext()
	data, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(name)))
	if err != nil {
		return fmt.Errorf("expected %s in the collection: %w\noutput:\n%s", name, err, c.output.String())
	}
	if string(data) != expected {
		return fmt.Errorf("expected %s to contain %q, got %q", name, expected, data)
	}
	return nil
}

func theCollectionShouldContain(name string) error {
	c := getCollectionContext()
	if _, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(name))); err != nil {
		return fmt.Errorf("expected %s in the collection: %w", name, err)
	}
	return nil
}

func theCollectionShouldNotContain(name string) error {
	c := getCollectionContext()
	if _, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(name))); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s to be absent (stat error: %v)", name, err)
	}
	return nil
}

func theOutputShouldMention(text string) error {
	c := getCollectionContext()
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to mention %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func theOutputShouldNotMention(text string) error {
	c := getCollectionContext()
	if strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output not to mention %q, got:\n%s", text, c.output.String())
	}
	return nil
}
