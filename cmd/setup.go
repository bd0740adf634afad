package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"romkit/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and writes romkit.yaml.

This command asks where the external tools live and for the defaults of
the convert and rename commands. Press enter to keep a suggested value.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(filepath.Base(configPath)+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to romkit setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	// Tools section
	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	// Convert section
	if err := promptConvert(prompter, cfg); err != nil {
		return err
	}

	// Rename section
	if err := promptRename(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	tools := []struct {
		message string
		field   *string
	}{
		{"ffmpeg executable?", &cfg.Tools.FFmpeg},
		{"ffprobe executable?", &cfg.Tools.FFprobe},
		{"7z executable?", &cfg.Tools.SevenZip},
		{"unrar executable?", &cfg.Tools.Unrar},
		{"bsdtar executable?", &cfg.Tools.BSDTar},
		{"tar executable?", &cfg.Tools.Tar},
	}

	for _, tool := range tools {
		value, err := prompter.Input(tool.message, *tool.field)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if value != "" {
			*tool.field = value
		}
	}
	return nil
}

func promptConvert(prompter Prompter, cfg *config.Config) error {
	channels, err := promptInt(prompter, "Output channels for WAV conversion?", cfg.Convert.Channels)
	if err != nil {
		return err
	}
	cfg.Convert.Channels = channels

	sampleRate, err := promptInt(prompter, "Sample rate for WAV conversion (0 keeps the source rate)?", cfg.Convert.SampleRate)
	if err != nil {
		return err
	}
	cfg.Convert.SampleRate = sampleRate
	return nil
}

func promptRename(prompter Prompter, cfg *config.Config) error {
	maxLength, err := promptInt(prompter, "Maximum file name length (extension included)?", cfg.Rename.MaxLength)
	if err != nil {
		return err
	}
	cfg.Rename.MaxLength = maxLength
	return nil
}

func promptInt(prompter Prompter, message string, defaultValue int) (int, error) {
	value, err := prompter.Input(message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", value)
	}
	return n, nil
}
