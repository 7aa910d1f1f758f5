package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show mirror configuration attributes and their sources",
	Long: `Show mirror configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, such as environment variables and the config file.
They may not reflect the values used by a running server.

Config file location: /etc/iam-mirror/config/iam-mirror.yml (or IAM_MIRROR_CONFIG_PATH)

Example:
  iamctl configuration show
  iamctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if output == "json" {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
		return nil
	}

	fmt.Print(cfg.FormatText())
	return nil
}
