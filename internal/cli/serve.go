package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/internal/api"
	"github.com/matzehuels/footprint/pkg/observability"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the build API over HTTP",
		Example: `  footprint serve --addr :9090
  curl -X POST localhost:9090/api/v1/builds -d '{"width_mm": 12000}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			cat, err := cfg.LoadCatalog()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			observability.NewLogHooks(c.Logger).Register()
			defer observability.Reset()

			read, write := cfg.ServerTimeouts()
			srv := api.New(runner, st,
				api.WithLogger(c.Logger),
				api.WithCatalog(cat),
				api.WithDefaults(cfg.Options()),
				api.WithTimeout(write),
			)
			return srv.ListenAndServe(ctx, addr, read, write)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
