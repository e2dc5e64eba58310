package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/pkg/api"
)

func MakeHandler(svc master.Service, logger *slog.Logger, svcName, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(loggingErrorEncoder(logger)),
	}

	mux.Route("/passes", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			startPassEndpoint(svc),
			decodeStartPassReq,
			api.EncodeResponse,
			opts...,
		), "start-pass").ServeHTTP)
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listPassesEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-passes").ServeHTTP)
		r.Get("/{passID}", otelhttp.NewHandler(kithttp.NewServer(
			getPassEndpoint(svc),
			decodeEntityReq("passID"),
			api.EncodeResponse,
			opts...,
		), "get-pass").ServeHTTP)
	})

	mux.Get("/health", health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeStartPassReq(_ context.Context, r *http.Request) (any, error) {
	var req startPassReq
	if err := json.NewDecoder(r.Body).Decode(&req.PassRequest); err != nil {
		return nil, errors.Join(api.ErrInvalidRequest, err)
	}

	return req, nil
}

func decodeEntityReq(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		return entityReq{
			id: chi.URLParam(r, key),
		}, nil
	}
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	offset, err := api.ReadUint64Query(r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, err
	}
	limit, err := api.ReadUint64Query(r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, err
	}

	return listEntityReq{
		offset: offset,
		limit:  limit,
	}, nil
}

func loggingErrorEncoder(logger *slog.Logger) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.WarnContext(ctx, "failed to serve request", slog.Any("error", err))
		api.EncodeError(ctx, err, w)
	}
}

func health(svcName, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", api.ContentType)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":      "pass",
			"service":     svcName,
			"instance_id": instanceID,
			"time":        time.Now().UTC().Format(time.RFC3339),
		})
	}
}
