package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vela/internal/config"
	"github.com/vango-dev/vela/internal/demo"
	"github.com/vango-dev/vela/pkg/server"
)

func serveCmd(dir *string) *cobra.Command {
	var (
		port    int
		host    string
		app     string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built-in apps",
		Long: `Serve every built-in app over HTTP and WebSocket.

Pages are server-rendered; the client then connects to the socket and
receives DOM operations for every update.

Examples:
  vela serve
  vela serve --port=8080 --app=todo
  vela serve --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if app != "" {
				cfg.App.Demo = app
			}
			if metrics {
				cfg.Metrics.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVarP(&app, "app", "a", "", "App served at / (default from config)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics")

	return cmd
}

// serverConfig maps the file configuration onto the server's.
func serverConfig(cfg *config.Config) *server.Config {
	sc := server.DefaultConfig()
	sc.Address = cfg.Address()
	sc.Title = cfg.Server.Title
	sc.SocketPath = cfg.Server.Path
	sc.MetricsPath = cfg.Metrics.Path
	sc.DefaultApp = cfg.App.Demo
	sc.MaxQueue = cfg.App.MaxQueue
	return sc
}

func runServe(cfg *config.Config) error {
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	demos := demo.Default(demo.Env{BaseURL: cfg.URL()})
	if _, ok := demos.Lookup(cfg.App.Demo); !ok {
		return fmt.Errorf("unknown app %q (available: %v)", cfg.App.Demo, demos.Names())
	}

	opts := []server.Option{server.WithLogger(logger.With("component", "server"))}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, server.WithMetrics(reg, cfg.Metrics.Namespace))
	}

	srv := server.New(serverConfig(cfg), opts...)
	for _, d := range demos.All() {
		srv.Mount(d.Name, d.Description, d.Factory)
	}

	printBanner()
	success("Serving on %s", cfg.URL())
	for _, name := range demos.Names() {
		info("%s/?app=%s", cfg.URL(), name)
	}
	if cfg.Metrics.Enabled {
		info("metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
