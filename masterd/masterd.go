// Package masterd wires and runs the flotilla master service.
package masterd

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/master/api"
	"github.com/flotilla-ml/flotilla/master/middleware"
	"github.com/flotilla-ml/flotilla/pkg/metrics"
	"github.com/flotilla-ml/flotilla/pkg/mqtt"
	"github.com/flotilla-ml/flotilla/pkg/server"
	"github.com/flotilla-ml/flotilla/pkg/storage"
	"github.com/flotilla-ml/flotilla/pkg/tracing"
)

const svcName = "master"

type Config struct {
	LogLevel     string
	InstanceID   string
	MQTTAddress  string
	MQTTQoS      uint8
	MQTTTimeout  time.Duration
	MQTTUsername string
	MQTTPassword string
	BaseTopic    string
	Server       server.Config
	OTELURL      url.URL
	TraceRatio   float64
}

func StartMaster(ctx context.Context, cancel context.CancelFunc, cfg Config) error {
	g, ctx := errgroup.WithContext(ctx)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := tracing.NewProvider(ctx, svcName, cfg.OTELURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			return fmt.Errorf("failed to initialize opentelemetry: %s", err.Error())
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				slog.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	var pubsub mqtt.PubSub
	if cfg.MQTTAddress != "" {
		ps, err := mqtt.NewPubSub(cfg.MQTTAddress, cfg.MQTTQoS, svcName, cfg.MQTTUsername, cfg.MQTTPassword, cfg.MQTTTimeout, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize mqtt pubsub: %s", err.Error())
		}
		pubsub = ps
	}

	svc := master.NewService(
		storage.NewInMemory[master.Pass](),
		pubsub,
		cfg.BaseTopic,
		logger,
	)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := metrics.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	hs := server.NewServer(ctx, cancel, svcName, cfg.Server, api.MakeHandler(svc, logger, svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}

	return nil
}
