package api

import (
	"net/http"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/pkg/api"
)

var (
	_ api.Response = (*passResponse)(nil)
	_ api.Response = (*listPassResponse)(nil)
)

type passResponse struct {
	master.Pass
	accepted bool
}

func (p passResponse) Code() int {
	if p.accepted {
		return http.StatusAccepted
	}

	return http.StatusOK
}

func (p passResponse) Headers() map[string]string {
	if p.accepted {
		return map[string]string{
			"Location": "/passes/" + p.ID,
		}
	}

	return map[string]string{}
}

func (p passResponse) Empty() bool {
	return false
}

type listPassResponse struct {
	master.PassPage
}

func (l listPassResponse) Code() int {
	return http.StatusOK
}

func (l listPassResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listPassResponse) Empty() bool {
	return false
}
