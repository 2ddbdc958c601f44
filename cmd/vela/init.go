package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vela/internal/config"
)

func initCmd(dir *string) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write vela.json (or vela.yaml with --format=yaml) with default settings.

Examples:
  vela init
  vela init --format=yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if existing, ok := config.Find(*dir); ok && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", existing)
			}

			name := "vela.json"
			switch format {
			case "json":
			case "yaml", "yml":
				name = "vela.yaml"
			default:
				return fmt.Errorf("unknown format %q (use json or yaml)", format)
			}

			path := filepath.Join(*dir, name)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format: json or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
