package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vela/internal/demo"
	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/render"
)

func demoCmd(dir *string) *cobra.Command {
	var (
		pretty bool
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Play a built-in app's script headlessly",
		Long: `Run a built-in app without a browser.

The app is driven through its scripted interactions and the rendered
HTML after every step is written to stdout.

Examples:
  vela demo --list
  vela demo todo --pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			demos := demo.Default(demo.Env{})

			if list {
				for _, d := range demos.All() {
					fmt.Printf("%-10s %s\n", d.Name, d.Description)
				}
				return nil
			}

			name := cfg.App.Demo
			if len(args) == 1 {
				name = args[0]
			}
			d, ok := demos.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown app %q (available: %s)", name, strings.Join(demos.Names(), ", "))
			}

			logger := newLogger(cfg, os.Stderr)
			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			return demo.Play(context.Background(), d, os.Stdout, r, app.WithLogger(logger))
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the rendered HTML")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the built-in apps")

	return cmd
}
