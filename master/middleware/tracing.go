package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flotilla-ml/flotilla/master"
)

var _ master.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    master.Service
}

func Tracing(tracer trace.Tracer, svc master.Service) master.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) StartPass(ctx context.Context, req master.PassRequest) (master.Pass, error) {
	ctx, span := tm.tracer.Start(ctx, "start-pass", trace.WithAttributes(
		attribute.Int("workers", req.Config.NumWorkers),
		attribute.Int("averaging_frequency", req.Config.AveragingFrequency),
	))
	defer span.End()

	return tm.svc.StartPass(ctx, req)
}

func (tm *tracing) GetPass(ctx context.Context, passID string) (master.Pass, error) {
	ctx, span := tm.tracer.Start(ctx, "get-pass", trace.WithAttributes(
		attribute.String("id", passID),
	))
	defer span.End()

	return tm.svc.GetPass(ctx, passID)
}

func (tm *tracing) ListPasses(ctx context.Context, offset, limit uint64) (master.PassPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-passes", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListPasses(ctx, offset, limit)
}
