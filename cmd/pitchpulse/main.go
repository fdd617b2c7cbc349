// Command pitchpulse runs the live match aggregation service: it ingests
// raw match records from a socket feed, Kafka, or HTTP, maintains per-player
// performance state and serves queries over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pitchpulse/pitchpulse/internal/adapters/export"
	"github.com/pitchpulse/pitchpulse/internal/adapters/feed"
	"github.com/pitchpulse/pitchpulse/internal/adapters/http/api"
	"github.com/pitchpulse/pitchpulse/internal/app"
	"github.com/pitchpulse/pitchpulse/internal/config"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

const (
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Default Go collectors are replaced by the custom system metrics
	// updater below.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithReferenceData(cfg.PlayersCSV, cfg.TeamsCSV),
	}

	var exporter *export.Exporter
	if cfg.ExportPath != "" {
		exporter, err = export.Open(cfg.ExportPath)
		if err != nil {
			os.Stderr.WriteString("failed to open snapshot export: " + err.Error() + "\n")
			return
		}
		defer func() {
			if err := exporter.Close(); err != nil {
				log.Error(ctx, "closing snapshot export failed", logger.Error(err))
			}
		}()
		opts = append(opts, app.WithExporter(exporter))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}

	// Raw socket feed in the upstream line-JSON format.
	var socket *feed.SocketListener
	if cfg.FeedAddr != "" {
		socket = feed.NewSocketListener(cfg.FeedAddr, svc, feed.WithSocketLogger(log.Named("feed.socket")))
		if err := socket.Start(ctx); err != nil {
			os.Stderr.WriteString("failed to start socket feed: " + err.Error() + "\n")
			return
		}
	}

	// Optional Kafka feed.
	var kafkaReader *feed.KafkaReader
	if len(cfg.KafkaBrokers) > 0 {
		kafkaReader = feed.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, svc,
			feed.WithKafkaLogger(log.Named("feed.kafka")))
		go func() {
			if err := kafkaReader.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "kafka feed stopped", logger.Error(err))
			}
		}()
	}

	go runSystemMetricsUpdater(ctx)

	apiServer := api.NewServer(svc,
		api.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(log.Named("api")),
	)
	srv := apiServer.HTTPServer(cfg.Addr)

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "http server shutdown failed", logger.Error(err))
	}
	if socket != nil {
		socket.Stop()
	}
	if kafkaReader != nil {
		if err := kafkaReader.Close(); err != nil {
			log.Error(shutdownCtx, "kafka reader close failed", logger.Error(err))
		}
	}
	svc.Stop(shutdownCtx)

	log.Info(shutdownCtx, "server stopped")
}

// runSystemMetricsUpdater periodically publishes memory and goroutine
// gauges to the metrics registry.
func runSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
