package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/nowplaying/internal/config"
)

var configInitOpts struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitOpts.force, "force", false,
		"Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !configInitOpts.force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
