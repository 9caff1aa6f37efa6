package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/cache"
	"github.com/jonathan/job-match-analyzer/internal/observability"
	"github.com/jonathan/job-match-analyzer/internal/server"
	"github.com/jonathan/job-match-analyzer/internal/server/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes REST endpoints for analyzing job postings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != 0 {
				a.cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			results := a.newCache(ctx)
			defer results.Close()

			metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
			metrics.RegisterCacheStats(results.Stats)

			runner, cleanup, err := a.newRunner(ctx, runnerOptions{store: true, cache: results, recorder: metrics})
			if err != nil {
				return err
			}
			defer cleanup()

			var limiter *ratelimit.Limiter
			if rl := ratelimit.LoadConfig(); rl.Enabled {
				limiter = ratelimit.NewLimiter(rl)
			}

			srv := server.New(server.Config{
				Port:        a.cfg.Port,
				CORSOrigins: a.cfg.CORSOrigins,
			}, server.Deps{
				Runner:   runner,
				Metrics:  metrics,
				Gatherer: prometheus.DefaultGatherer,
				Limiter:  limiter,
				Logger:   a.logger,
			})
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from PORT or 8080)")
	return cmd
}

// newCache builds the result cache with its L1 cleanup running until ctx is done
func (a *app) newCache(ctx context.Context) *cache.Tiered {
	c := cache.New(ctx, cache.Options{
		RedisURL: a.cfg.RedisURL,
		TTL:      a.cfg.CacheDuration(),
	})
	c.StartCleanup(ctx)
	return c
}
