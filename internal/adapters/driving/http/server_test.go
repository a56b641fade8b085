package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

type mockRetrieval struct {
	result *domain.RetrievalResult
	vec    []float64
	count  int
	err    error

	gotQuery string
	gotK     int
}

func (m *mockRetrieval) Retrieve(_ context.Context, query string, k int) (*domain.RetrievalResult, error) {
	m.gotQuery, m.gotK = query, k
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.RetrievalResult{}, nil
	}
	return m.result, nil
}

func (m *mockRetrieval) Embed(_ context.Context, _ string) ([]float64, error) {
	return m.vec, m.err
}

func (m *mockRetrieval) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

type mockIntent struct {
	patch   domain.ControlPatch
	err     error
	gotTopK int
}

func (m *mockIntent) Intent(_ context.Context, _ string, topK int) (*domain.ControlPatch, error) {
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	p := m.patch
	return &p, nil
}

func newTestServer(t *testing.T, r *mockRetrieval, i *mockIntent) http.Handler {
	t.Helper()
	cfg := Config{Retrieval: r, Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "metrics")
	})}
	if i != nil {
		cfg.Intent = i
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s.Handler()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewServer_RequiresRetrieval(t *testing.T) {
	_, err := NewServer(Config{})
	assert.ErrorIs(t, err, ErrMissingRetrievalService)

	s, err := NewServer(Config{Retrieval: &mockRetrieval{}})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultServerAddr, s.Addr())
}

func TestSearch(t *testing.T) {
	t.Run("returns results and stats", func(t *testing.T) {
		r := &mockRetrieval{result: &domain.RetrievalResult{
			Results: []domain.ScoredDocument{{
				Document:   domain.Document{ID: "1", Work: "Optics", Author: "Newton", Content: "light"},
				Similarity: 0.9,
			}},
			Stats: domain.RetrievalStats{Count: 4, TopSimilarity: 0.9, ThresholdUsed: 0.54, FilteredCount: 1, CacheSize: 1},
		}}
		rec := do(newTestServer(t, r, nil), http.MethodPost, "/api/rag/search", `{"text":"light","k":3}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "light", r.gotQuery)
		assert.Equal(t, 3, r.gotK)

		body := decodeBody(t, rec)
		results := body["results"].([]any)
		require.Len(t, results, 1)
		first := results[0].(map[string]any)
		assert.Equal(t, "Newton", first["author"])
		assert.Equal(t, 0.9, first["similarity"])
		assert.NotContains(t, first, "embedding")
		stats := body["stats"].(map[string]any)
		assert.Equal(t, 0.54, stats["thresholdUsed"])
		assert.Equal(t, false, stats["cacheHit"])
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		rec := do(newTestServer(t, &mockRetrieval{}, nil), http.MethodPost, "/api/rag/search", `{"text":"x"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, decodeBody(t, rec)["results"])
	})

	t.Run("default k", func(t *testing.T) {
		r := &mockRetrieval{}
		do(newTestServer(t, r, nil), http.MethodPost, "/api/rag/search", `{"text":"x","k":"many"}`)
		assert.Equal(t, domain.DefaultTopK, r.gotK)
	})

	t.Run("text is trimmed before retrieval", func(t *testing.T) {
		r := &mockRetrieval{}
		rec := do(newTestServer(t, r, nil), http.MethodPost, "/api/rag/search", `{"text":"  optics \n"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "optics", r.gotQuery)
	})

	t.Run("whitespace text never reaches retrieval", func(t *testing.T) {
		r := &mockRetrieval{}
		rec := do(newTestServer(t, r, nil), http.MethodPost, "/api/rag/search", `{"text":" \t\n "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text is required", decodeBody(t, rec)["error"])
		assert.Empty(t, r.gotQuery)
	})

	for _, body := range []string{`{}`, `{"text":""}`, `{"text":42}`, ``} {
		t.Run("rejects "+body, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/rag/search", strings.NewReader(body))
			rec := httptest.NewRecorder()
			newTestServer(t, &mockRetrieval{}, nil).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "text is required", decodeBody(t, rec)["error"])
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		rec := do(newTestServer(t, &mockRetrieval{}, nil), http.MethodPost, "/api/rag/search", `{"text":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("embedding unavailable is 503", func(t *testing.T) {
		r := &mockRetrieval{err: fmt.Errorf("retrieve: %w: timeout", domain.ErrEmbeddingUnavailable)}
		rec := do(newTestServer(t, r, nil), http.MethodPost, "/api/rag/search", `{"text":"x"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("corpus failure is 500", func(t *testing.T) {
		r := &mockRetrieval{err: errors.New("db down")}
		rec := do(newTestServer(t, r, nil), http.MethodPost, "/api/rag/search", `{"text":"x"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "db down", decodeBody(t, rec)["error"])
	})
}

func TestMethodAndContentType(t *testing.T) {
	h := newTestServer(t, &mockRetrieval{}, &mockIntent{})

	rec := do(h, http.MethodGet, "/api/rag/search", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))

	req := httptest.NewRequest(http.MethodPost, "/api/intent", strings.NewReader("query=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/embed", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/api/rag/count", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIntent(t *testing.T) {
	t.Run("returns patch", func(t *testing.T) {
		patch := domain.NeutralPatch()
		patch.Visual.Ops["contrast"] = domain.OpConfig{On: true, Strength: 0.7}
		i := &mockIntent{patch: patch}
		rec := do(newTestServer(t, &mockRetrieval{}, i), http.MethodPost, "/api/intent", `{"query":"vision"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, i.gotTopK)
		visual := decodeBody(t, rec)["visual"].(map[string]any)
		assert.Contains(t, visual["ops"], "contrast")
	})

	t.Run("neutral patch shape", func(t *testing.T) {
		i := &mockIntent{patch: domain.NeutralPatch()}
		rec := do(newTestServer(t, &mockRetrieval{}, i), http.MethodPost, "/api/intent", `{"query":"x","topK":2}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, i.gotTopK)
		assert.JSONEq(t, `{"visual":{"ops":{}},"audio":{},"meta":{"sources":[],"stats":null}}`, rec.Body.String())
	})

	t.Run("missing query", func(t *testing.T) {
		rec := do(newTestServer(t, &mockRetrieval{}, &mockIntent{}), http.MethodPost, "/api/intent", `{"topK":2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing query", decodeBody(t, rec)["error"])
	})

	t.Run("whitespace query", func(t *testing.T) {
		i := &mockIntent{}
		rec := do(newTestServer(t, &mockRetrieval{}, i), http.MethodPost, "/api/intent", `{"query":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing query", decodeBody(t, rec)["error"])
		assert.Zero(t, i.gotTopK)
	})

	t.Run("not mounted without intent service", func(t *testing.T) {
		rec := do(newTestServer(t, &mockRetrieval{}, nil), http.MethodPost, "/api/intent", `{"query":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEmbed(t *testing.T) {
	h := newTestServer(t, &mockRetrieval{vec: []float64{0.6, 0.8}}, nil)

	rec := do(h, http.MethodPost, "/api/embed", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"embedding":[0.6,0.8]}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/embed", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing text", decodeBody(t, rec)["error"])
}

func TestCountAndHealth(t *testing.T) {
	h := newTestServer(t, &mockRetrieval{count: 9}, nil)

	rec := do(h, http.MethodGet, "/api/rag/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":9}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/healthz", "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, "metrics", rec.Body.String())
}

func TestUtter(t *testing.T) {
	h := newTestServer(t, &mockRetrieval{}, nil)

	rec := do(h, http.MethodPost, "/api/utter", `{"task":{"name":"Trace the spiral"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"Attend: Trace the spiral. Consider the play of light and sound; act, then observe.",
		decodeBody(t, rec)["text"])

	rec = do(h, http.MethodPost, "/api/utter", `not json`)
	assert.Equal(t, Utter(DefaultTaskName), decodeBody(t, rec)["text"])
}

func TestIntParam(t *testing.T) {
	assert.Equal(t, 5, intParam(nil, 5))
	assert.Equal(t, 3, intParam(3.0, 5))
	assert.Equal(t, 7, intParam("7", 5))
	assert.Equal(t, 5, intParam("abc", 5))
	assert.Equal(t, 5, intParam(0.0, 5))
	assert.Equal(t, 50, intParam(1e9, 5))
	assert.Equal(t, -2, intParam(-2.0, 5))
}

func TestServer_Serve(t *testing.T) {
	s, err := NewServer(Config{Retrieval: &mockRetrieval{count: 1}})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
