package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/nowplaying/internal/adapter/output"
	"github.com/jmylchreest/nowplaying/internal/catalog"
)

var catalogOpts struct {
	format   string
	template string
	noPath   bool
	export   string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the tracks in the catalog",
	Long: `List the tracks in the catalog with their resolved paths and file sizes.

Missing files are listed rather than rejected, so the command can be used
to find broken entries.

Examples:
  # List tracks
  nowplaying catalog

  # List tracks from another catalog as YAML
  nowplaying catalog --catalog ./list.json --format yaml

  # Convert the catalog to TOML
  nowplaying catalog --export toml > list.toml

  # Custom line format
  nowplaying catalog --template '{{.Name}} ({{size .}}){{"\n"}}'`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVarP(&catalogOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
	catalogCmd.Flags().StringVar(&catalogOpts.template, "template", "",
		"Custom Go template for plain output")
	catalogCmd.Flags().BoolVar(&catalogOpts.noPath, "no-path", false,
		"Hide resolved file paths in plain output")
	catalogCmd.Flags().StringVar(&catalogOpts.export, "export", "",
		"Write the whole catalog in another format instead (json, yaml, toml)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.CatalogPath(), catalog.Options{
		MusicDir:      cfg.Catalog.MusicDir,
		SkipFileCheck: true,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if catalogOpts.export != "" {
		data, err := cat.Marshal(catalogOpts.export)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	format, err := output.ParseFormat(catalogOpts.format)
	if err != nil {
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = catalogOpts.template
	opts.ShowPath = !catalogOpts.noPath

	return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), output.FromCatalog(cat))
}
