package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattermill/paperdex/api"
	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/paper"
	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
	"github.com/lattermill/paperdex/store/memory"
)

type envelope struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
	Error   string           `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Backend) {
	t.Helper()
	backend := memory.New()
	s := store.New(backend, store.DefaultConfig())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := query.NewRouter(s, log)

	records := []paper.Record{
		{
			ID:         "2401.00001",
			Title:      "Attention Mechanisms",
			Abstract:   "Attention layers improve transformers.",
			Categories: []string{"cs.AI"},
			Authors:    []string{"A. Einstein"},
			Published:  "2024-01-01T10:00:00Z",
		},
		{
			ID:         "2401.00002",
			Title:      "Multilingual Models",
			Abstract:   "Multilingual training helps translation.",
			Categories: []string{"cs.AI", "cs.CL"},
			Authors:    []string{"A. Einstein", "M. Curie"},
			Published:  "2024-01-02T10:00:00Z",
		},
	}
	for _, rec := range records {
		items, err := paper.Expand(rec, 10)
		require.NoError(t, err)
		for _, it := range items {
			require.NoError(t, s.Put(context.Background(), it))
		}
	}

	cfg := &config.API{
		Common:       config.Common{Table: "test", Region: "us-east-1"},
		BindAddr:     ":0",
		DefaultLimit: 10,
		MaxLimit:     100,
	}
	srv := httptest.NewServer(api.New(router, cfg, log).Handler())
	t.Cleanup(srv.Close)
	return srv, backend
}

func get(t *testing.T, srv *httptest.Server, path string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecentInCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/recent?category=cs.AI")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, env.Count)
	require.Equal(t, "2401.00002", env.Results[0]["arxiv_id"], "newest first")
	require.Equal(t, "2401.00001", env.Results[1]["arxiv_id"])
}

func TestRecentRespectsLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/recent?category=cs.AI&limit=1")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, env.Count)
}

func TestRecentMissingCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/recent")
	require.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, env.Error)
}

func TestRecentBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		status, _ := get(t, srv, "/papers/recent?category=cs.AI&limit="+limit)
		require.Equal(t, http.StatusBadRequest, status, "limit=%s", limit)
	}
}

func TestByAuthor(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/author?name=M.+Curie")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, env.Count)
	require.Equal(t, "2401.00002", env.Results[0]["arxiv_id"])
}

func TestByID(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/id?id=2401.00001")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, env.Count)
	require.Equal(t, "Attention Mechanisms", env.Results[0]["title"])
	require.Contains(t, env.Results[0], "abstract", "canonical lookup returns the full record")
}

func TestByIDNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/id?id=9999.99999")
	require.Equal(t, http.StatusNotFound, status)
	require.NotEmpty(t, env.Error)
}

func TestDateRange(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/daterange?category=cs.AI&start=2024-01-02&end=2024-01-31")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, env.Count)
	require.Equal(t, "2401.00002", env.Results[0]["arxiv_id"])
}

func TestDateRangeBadDates(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := get(t, srv, "/papers/daterange?category=cs.AI&start=Jan+1&end=2024-01-31")
	require.Equal(t, http.StatusBadRequest, status)
}

func TestDateRangeMissingParams(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := get(t, srv, "/papers/daterange?category=cs.AI&start=2024-01-01")
	require.Equal(t, http.StatusBadRequest, status)
}

func TestSearchByKeyword(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/papers/search?keyword=Transformers")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, env.Count)
	require.Equal(t, "2401.00001", env.Results[0]["arxiv_id"])
}

func TestBackendOutageMapsTo503(t *testing.T) {
	srv, backend := newTestServer(t)
	backend.SetUnavailable(true)

	status, env := get(t, srv, "/papers/recent?category=cs.AI")
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.NotEmpty(t, env.Error)
}
