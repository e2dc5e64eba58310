package api

import (
	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/pkg/api"
)

type startPassReq struct {
	master.PassRequest
}

func (r *startPassReq) validate() error {
	return r.Config.Validate()
}

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return api.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	return nil
}
