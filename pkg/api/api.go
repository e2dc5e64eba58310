// Package api holds HTTP helpers shared by the daemon's transport layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/flotilla-ml/flotilla/pkg/storage"
	"github.com/flotilla-ml/flotilla/training"
)

const (
	OffsetKey = "offset"
	LimitKey  = "limit"
	DefOffset = 0
	DefLimit  = 100

	ContentType = "application/json"
)

var (
	ErrInvalidRequest    = errors.New("invalid request body")
	ErrInvalidQueryParam = errors.New("invalid query parameter")
	ErrMissingID         = errors.New("missing entity ID")
)

// Response is implemented by API responses that control their own status
// code and headers.
type Response interface {
	Code() int
	Headers() map[string]string
	Empty() bool
}

func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidQueryParam),
		errors.Is(err, ErrMissingID),
		errors.Is(err, storage.ErrEmptyKey),
		errors.Is(err, training.ErrInvalidConfig):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// ReadUint64Query parses an unsigned query parameter, falling back to def
// when absent.
func ReadUint64Query(r *http.Request, key string, def uint64) (uint64, error) {
	vals := r.URL.Query()[key]
	if len(vals) == 0 {
		return def, nil
	}

	v, err := strconv.ParseUint(vals[0], 10, 64)
	if err != nil {
		return 0, errors.Join(ErrInvalidQueryParam, err)
	}

	return v, nil
}
