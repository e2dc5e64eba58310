package api

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/pkg/api"
)

func startPassEndpoint(svc master.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(startPassReq)
		if !ok {
			return passResponse{}, api.ErrInvalidRequest
		}
		if err := req.validate(); err != nil {
			return passResponse{}, err
		}

		pass, err := svc.StartPass(ctx, req.PassRequest)
		if err != nil {
			return passResponse{}, err
		}

		return passResponse{
			Pass:     pass,
			accepted: true,
		}, nil
	}
}

func getPassEndpoint(svc master.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return passResponse{}, errors.Join(api.ErrInvalidRequest, api.ErrMissingID)
		}
		if err := req.validate(); err != nil {
			return passResponse{}, err
		}

		pass, err := svc.GetPass(ctx, req.id)
		if err != nil {
			return passResponse{}, err
		}

		return passResponse{
			Pass: pass,
		}, nil
	}
}

func listPassesEndpoint(svc master.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listPassResponse{}, api.ErrInvalidRequest
		}
		if err := req.validate(); err != nil {
			return listPassResponse{}, err
		}

		passes, err := svc.ListPasses(ctx, req.offset, req.limit)
		if err != nil {
			return listPassResponse{}, err
		}

		return listPassResponse{
			PassPage: passes,
		}, nil
	}
}
