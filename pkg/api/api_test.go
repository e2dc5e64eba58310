package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/pkg/api"
	"github.com/flotilla-ml/flotilla/pkg/storage"
	"github.com/flotilla-ml/flotilla/training"
)

func TestReadUint64Query(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want uint64
		err  error
	}{
		{name: "present", url: "/passes?offset=42", want: 42},
		{name: "absent falls back", url: "/passes", want: 7},
		{name: "not a number", url: "/passes?offset=abc", err: api.ErrInvalidQueryParam},
		{name: "negative", url: "/passes?offset=-1", err: api.ErrInvalidQueryParam},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, tc.url, nil)
			got, err := api.ReadUint64Query(r, api.OffsetKey, 7)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code int
	}{
		{name: "invalid request", err: api.ErrInvalidRequest, code: http.StatusBadRequest},
		{name: "invalid query param", err: api.ErrInvalidQueryParam, code: http.StatusBadRequest},
		{name: "missing id", err: api.ErrMissingID, code: http.StatusBadRequest},
		{name: "invalid config", err: training.ErrInvalidConfig, code: http.StatusBadRequest},
		{name: "empty key", err: storage.ErrEmptyKey, code: http.StatusBadRequest},
		{name: "not found", err: storage.ErrNotFound, code: http.StatusNotFound},
		{name: "unexpected", err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			api.EncodeError(t.Context(), tc.err, w)

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, api.ContentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
