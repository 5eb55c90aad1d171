package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NishanthRao01/bankguard/pkg/api"
	"github.com/NishanthRao01/bankguard/pkg/cache"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Long: `Run the HTTP analysis API.

The server exposes the analysis pipeline over HTTP: POST a scenario document
to /api/v1/analyze to get the safety and deadlock verdict. Open the root
path in a browser for a usage page with the bundled example scenarios.

Results are cached in the local file cache by default; point --redis at a
Redis instance to share one cache across several server instances. The
BANKGUARD_REDIS environment variable provides a default for --redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", os.Getenv("BANKGUARD_REDIS"), "redis address for a shared cache (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the cache backend and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisAddr string, noCache bool) error {
	store, err := c.newServerCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := api.New(api.Config{
		Addr:   addr,
		Cache:  store,
		Logger: c.Logger,
	})

	return srv.Run(ctx)
}

// newServerCache picks the cache backend for the server: Redis when
// configured, the local file cache otherwise, NullCache when disabled.
func (c *CLI) newServerCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		prog := newProgress(c.Logger)
		store, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: redisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		prog.done(fmt.Sprintf("Connected to redis at %s", redisAddr))
		return store, nil
	}
	return newCache(false)
}
