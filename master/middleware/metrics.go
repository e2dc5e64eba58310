package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/flotilla-ml/flotilla/master"
)

var _ master.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     master.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc master.Service) master.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) StartPass(ctx context.Context, req master.PassRequest) (master.Pass, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "start-pass").Add(1)
		mm.latency.With("method", "start-pass").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.StartPass(ctx, req)
}

func (mm *metricsMiddleware) GetPass(ctx context.Context, passID string) (master.Pass, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-pass").Add(1)
		mm.latency.With("method", "get-pass").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetPass(ctx, passID)
}

func (mm *metricsMiddleware) ListPasses(ctx context.Context, offset, limit uint64) (master.PassPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-passes").Add(1)
		mm.latency.With("method", "list-passes").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListPasses(ctx, offset, limit)
}
