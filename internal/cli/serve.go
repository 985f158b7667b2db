package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/internal/server"
	"github.com/matzehuels/sitegraph/pkg/observability"
	"github.com/matzehuels/sitegraph/pkg/observability/prom"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags       scanFlags
		addr        string
		maxSessions int
		noMetrics   bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve the structure, layout and view session API over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := projectDir(args)
			cfg, err := c.loadConfig(dir)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			filters, err := cfg.Filters()
			if err != nil {
				return err
			}
			geometry := cfg.Layout.WithDefaults()
			opts := server.Options{
				Analysis:    flags.options(cfg, dir),
				Filters:     filters,
				MaxSessions: cfg.Server.MaxSessions,
				Logger:      c.Logger,
			}
			opts.Render.NodeWidth = geometry.NodeWidth
			opts.Render.NodeHeight = geometry.NodeHeight
			if cmd.Flags().Changed("max-sessions") {
				opts.MaxSessions = maxSessions
			}

			if !noMetrics {
				m := prom.New(prometheus.NewRegistry())
				m.Register()
				defer observability.Reset()
				opts.Metrics = m.Handler()
			}

			srv, err := server.New(runner, opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			printInfo("Serving %s on %s", dir, StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", server.DefaultMaxSessions, "maximum live view sessions")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}
