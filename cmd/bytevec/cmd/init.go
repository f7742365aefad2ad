/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/bytevec/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default bytevec configuration file.

The file goes to --config when given, otherwise to the platform default
location. Files ending in .toml are written as TOML, anything else as YAML.

Examples:
  bytevec init
  bytevec init --config ./bytevec.toml --size-type u16`,
	// The file may not exist yet, so skip the root's config loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		force, _ := cmd.Flags().GetBool("force")
		sizeType, _ := cmd.Flags().GetString("size-type")

		written, err := writeDefaultConfig(path, sizeType, force)
		if err != nil {
			return err
		}
		if !written {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}
		cmd.Printf("Wrote config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

// writeDefaultConfig writes the default config to path unless a file is
// already there. It reports whether it wrote.
func writeDefaultConfig(path, sizeType string, force bool) (bool, error) {
	if config.ConfigExists(path) && !force {
		return false, nil
	}
	cfg := config.DefaultConfig()
	if sizeType != "" {
		cfg.SizeType = sizeType
	}
	if err := cfg.Validate(); err != nil {
		return false, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return false, err
	}
	return true, nil
}
