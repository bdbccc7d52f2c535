package cli

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bestofjs/pkg/api"
)

// serveCommand creates the command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		preload bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `Serve the project and tag searches as a JSON HTTP API.

Routes:
  GET  /healthz
  GET  /projects           ?criteria=&sort=&projection=&skip=&limit=&scope=
  POST /projects/search    query descriptor as JSON body
  GET  /projects/hot       ?limit=
  GET  /projects/{slug}
  GET  /tags               ?criteria=&sort=&skip=&limit=
  GET  /tags/popular       ?limit=

The dataset is fetched once and kept in memory until shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			if preload {
				go func() {
					if _, err := sess.provider.Get(ctx); err != nil && ctx.Err() == nil {
						logger.Warn("preload failed, retrying on first request", "err", err)
					}
				}()
			}

			srvCfg := api.DefaultConfig()
			srvCfg.Addr = cfg.Server.Addr
			if addr != "" {
				srvCfg.Addr = addr
			}

			srv := api.New(sess.search,
				api.WithConfig(srvCfg),
				api.WithLogger(logger),
				api.WithReadiness(sess.provider.Ready),
			)
			start := time.Now()
			err = srv.ListenAndServe(ctx)
			if stderrors.Is(err, context.Canceled) {
				logger.Info("server stopped", "uptime", time.Since(start).Round(time.Second))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&preload, "preload", true, "fetch the dataset at startup instead of on the first request")
	return cmd
}
