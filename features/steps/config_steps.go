//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"romkit/cmd"
	"romkit/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
	output     *bytes.Buffer
	cmdErr     error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, config.DefaultPath),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext.tempDir != "" {
			os.RemoveAll(SharedConfigContext.tempDir)
		}
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a configuration file with content:$`, aConfigurationFileWithContent)
	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, iAttemptToLoadTheConfiguration)
	ctx.Step(`^the tool "([^"]*)" should be "([^"]*)"$`, theToolShouldBe)
	ctx.Step(`^the rename max length should be (\d+)$`, theRenameMaxLengthShouldBe)
	ctx.Step(`^the convert channels should be (\d+)$`, theConvertChannelsShouldBe)
	ctx.Step(`^I should receive a configuration error$`, iShouldReceiveAConfigurationError)
	ctx.Step(`^I set tool "([^"]*)" to "([^"]*)"$`, iSetToolTo)
	ctx.Step(`^I list the configured tools$`, iListTheConfiguredTools)
	ctx.Step(`^the tool listing should show "([^"]*)" at "([^"]*)"$`, theToolListingShouldShow)
	ctx.Step(`^the config command should fail$`, theConfigCommandShouldFail)
}

func aConfigurationFileWithContent(content *godog.DocString) error {
	c := SharedConfigContext
	return os.WriteFile(c.configPath, []byte(content.Content), 0644)
}

func noConfigurationFileExists() error {
	c := SharedConfigContext
	if _, err := os.Stat(c.configPath); err == nil {
		return fmt.Errorf("unexpected config file at %s", c.configPath)
	}
	return nil
}

func iLoadTheConfiguration() error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func iAttemptToLoadTheConfiguration() error {
	c := SharedConfigContext
	c.cfg, c.loadErr = config.LoadOrDefault(c.configPath)
	return nil
}

func theToolShouldBe(name, expected string) error {
	c := SharedConfigContext
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	for _, tool := range config.NewConfigManager(c.cfg, c.configPath).ListTools() {
		if tool.Name == name {
			if tool.Path != expected {
				return fmt.Errorf("expected tool %s at %q, got %q", name, expected, tool.Path)
			}
			return nil
		}
	}
	return fmt.Errorf("tool %s not found", name)
}

func theRenameMaxLengthShouldBe(expected int) error {
	c := SharedConfigContext
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Rename.MaxLength != expected {
		return fmt.Errorf("expected max length %d, got %d", expected, c.cfg.Rename.MaxLength)
	}
	return nil
}

func theConvertChannelsShouldBe(expected int) error {
	c := SharedConfigContext
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Convert.Channels != expected {
		return fmt.Errorf("expected %d channels, got %d", expected, c.cfg.Convert.Channels)
	}
	return nil
}

func iShouldReceiveAConfigurationError() error {
	if SharedConfigContext.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}

func iSetToolTo(name, path string) error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	c.cmdErr = cmd.RunConfigSetWithDependencies(cfg, c.configPath, "tool", name, path, c.output)
	return nil
}

func iListTheConfiguredTools() error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	c.output.Reset()
	return cmd.RunConfigListWithDependencies(cfg, c.configPath, "tools", c.output)
}

func theToolListingShouldShow(name, path string) error {
	for _, line := range strings.Split(SharedConfigContext.output.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == name {
			if fields[1] != path {
				return fmt.Errorf("expected %s at %s, listing shows %s", name, path, fields[1])
			}
			return nil
		}
	}
	return fmt.Errorf("tool %s missing from listing:\n%s", name, SharedConfigContext.output.String())
}

func theConfigCommandShouldFail() error {
	if SharedConfigContext.cmdErr == nil {
		return fmt.Errorf("expected the config command to fail")
	}
	return nil
}
