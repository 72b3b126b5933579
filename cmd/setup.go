package cmd

import (
	"fmt"
	"os"

	"github.com/jyje/pilot-agent/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Copy the sample config template to the live config path if absent",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if config.Exists(path) {
		fmt.Printf("config already exists at %s, leaving it untouched\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(config.SampleYAML), 0o644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	fmt.Printf("wrote sample config to %s\n", path)
	fmt.Println("edit it to set your provider's api_key, then run: pilot chat")
	return nil
}
