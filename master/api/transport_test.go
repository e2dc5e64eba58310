package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/master/api"
	"github.com/flotilla-ml/flotilla/pkg/storage"
	"github.com/flotilla-ml/flotilla/training"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := master.NewService(
		storage.NewInMemory[master.Pass](),
		nil,
		"flotilla",
		slog.New(slog.DiscardHandler),
	)
	srv := httptest.NewServer(api.MakeHandler(svc, slog.New(slog.DiscardHandler), "master", "test-instance"))
	t.Cleanup(srv.Close)

	return srv
}

func startPass(t *testing.T, srv *httptest.Server) master.Pass {
	t.Helper()

	cfg, err := training.NewBuilder(2, 1).
		BatchSizePerWorker(4).
		AveragingFrequency(1).
		Build()
	require.NoError(t, err)

	body, err := json.Marshal(master.PassRequest{
		Config:   cfg,
		Examples: 32,
		Features: 4,
		Seed:     31,
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/passes", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var pass master.Pass
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pass))
	assert.Equal(t, "/passes/"+pass.ID, resp.Header.Get("Location"))

	return pass
}

func TestStartAndGetPass(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	pass := startPass(t, srv)

	assert.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/passes/" + pass.ID)
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var got master.Pass
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			return false
		}

		return resp.StatusCode == http.StatusOK && got.State == master.PassCompleted
	}, 10*time.Second, 10*time.Millisecond)
}

func TestStartPassInvalidBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/passes", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStartPassInvalidConfigOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/passes", "application/json", bytes.NewReader([]byte(`{"config":{"num_workers":0}}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPassNotFoundOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/passes/no-such-pass")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPassesOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	startPass(t, srv)
	startPass(t, srv)

	resp, err := http.Get(srv.URL + "/passes?offset=0&limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page master.PassPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, uint64(2), page.Total)
	assert.Len(t, page.Passes, 2)
}

func TestListPassesBadQuery(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/passes?offset=abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pass", body["status"])
	assert.Equal(t, "master", body["service"])
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
