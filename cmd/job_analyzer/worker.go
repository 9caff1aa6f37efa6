package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/jonathan/job-match-analyzer/internal/observability"
	"github.com/jonathan/job-match-analyzer/internal/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	var (
		concurrency int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume queued analysis requests",
		Long: "Consume analysis requests from RabbitMQ, analyze them and publish status updates. " +
			"Postings given by object key are downloaded from S3 (S3_BUCKET, S3_ENDPOINT).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is required")
			}
			if concurrency > 0 {
				a.cfg.WorkerConcurrency = concurrency
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

			var objects worker.ObjectGetter
			if a.cfg.S3Bucket != "" {
				s3Objects, err := worker.NewS3Objects(ctx, worker.S3Config{
					Bucket:    a.cfg.S3Bucket,
					Endpoint:  a.cfg.S3Endpoint,
					Region:    a.cfg.S3Region,
					AccessKey: a.cfg.S3AccessKey,
					SecretKey: a.cfg.S3SecretKey,
				})
				if err != nil {
					return err
				}
				objects = s3Objects
			}

			conn, err := amqp.Dial(a.cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("error connecting to RabbitMQ: %w", err)
			}
			defer conn.Close()

			publisher, err := worker.NewAMQPPublisher(conn, a.cfg.StatusExchange)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				go a.serveMetrics(metricsAddr)
			}

			w := worker.New(worker.Deps{
				Runner:    runner,
				Publisher: publisher,
				Objects:   objects,
				Metrics:   metrics,
				Logger:    a.logger,
			})
			pool := worker.NewPool(worker.PoolConfig{
				URL:         a.cfg.RabbitMQURL,
				Queue:       a.cfg.RequestQueue,
				Concurrency: a.cfg.WorkerConcurrency,
			}, w)

			a.logger.Info("starting worker pool",
				slog.Int("workers", a.cfg.WorkerConcurrency),
				slog.String("queue", a.cfg.RequestQueue),
				slog.Bool("object_storage", objects != nil))
			return pool.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of consumers (default from WORKER_CONCURRENCY or 4)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve /metrics on, e.g. :9090")
	return cmd
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("metrics server failed", slog.Any("error", err))
	}
}
