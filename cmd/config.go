package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"romkit/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration entries",
	Long: `Show and change the external tools romkit runs.

Examples:
  romkit config list tools
  romkit config set tool 7z /usr/local/bin/7zz`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list [tools]",
	Short: "List config entries",
	Long: `List the configured external tools.

Examples:
  romkit config list tools`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunConfigListWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	switch entityType {
	case "tools":
		fmt.Fprintln(w, "TOOL\tPATH")
		for _, t := range mgr.ListTools() {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Path)
		}

	default:
		return fmt.Errorf("unknown entity type %q. Use tools", entityType)
	}

	return w.Flush()
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set tool <name> <path>",
	Short: "Change a config entry",
	Long: `Point a tool at a different executable and save the config file.

Examples:
  romkit config set tool unrar /opt/rar/unrar
  romkit config set tool ffmpeg ffmpeg-static`,
	Args: cobra.ExactArgs(3),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], args[2], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, entityType, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "tool":
		if err := mgr.SetTool(key, value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Set tool %q to %s\n", key, value)

	default:
		return fmt.Errorf("unknown entity type %q. Use tool", entityType)
	}

	return nil
}
