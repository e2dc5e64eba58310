package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/flotilla-ml/flotilla/master"
)

var _ master.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    master.Service
}

func Logging(logger *slog.Logger, svc master.Service) master.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) StartPass(ctx context.Context, req master.PassRequest) (resp master.Pass, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("pass",
				slog.String("id", resp.ID),
				slog.Int("workers", req.Config.NumWorkers),
				slog.Int("averaging_frequency", req.Config.AveragingFrequency),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Start pass failed", args...)

			return
		}
		lm.logger.Info("Start pass completed successfully", args...)
	}(time.Now())

	return lm.svc.StartPass(ctx, req)
}

func (lm *loggingMiddleware) GetPass(ctx context.Context, passID string) (resp master.Pass, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("pass",
				slog.String("id", passID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get pass failed", args...)

			return
		}
		lm.logger.Info("Get pass completed successfully", args...)
	}(time.Now())

	return lm.svc.GetPass(ctx, passID)
}

func (lm *loggingMiddleware) ListPasses(ctx context.Context, offset, limit uint64) (resp master.PassPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List passes failed", args...)

			return
		}
		lm.logger.Info("List passes completed successfully", args...)
	}(time.Now())

	return lm.svc.ListPasses(ctx, offset, limit)
}
