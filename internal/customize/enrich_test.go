package customize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPEnricher_ValidatesBaseURL(t *testing.T) {
	_, err := NewHTTPEnricher("ftp://assets.example", time.Second)
	require.Error(t, err)

	_, err = NewHTTPEnricher("://bad", time.Second)
	require.Error(t, err)

	e, err := NewHTTPEnricher("https://assets.example/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "https://assets.example", e.baseURL)
}

func TestHTTPEnricher_Enrich(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/assets/tpl-atelier", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"preview_url":"https://assets.example/atelier.png","screenshots":["a.png","b.png"]}`))
	}))
	defer srv.Close()

	e, err := NewHTTPEnricher(srv.URL, time.Second)
	require.NoError(t, err)

	got, err := e.Enrich(context.Background(), "tpl-atelier")
	require.NoError(t, err)
	assert.Equal(t, "https://assets.example/atelier.png", got.PreviewURL)
	assert.Len(t, got.Screenshots, 2)
}

func TestHTTPEnricher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e, err := NewHTTPEnricher(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = e.Enrich(context.Background(), "tpl-atelier")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
}

func TestHTTPEnricher_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e, err := NewHTTPEnricher(srv.URL, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = e.Enrich(ctx, "tpl-atelier")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
}

func TestHTTPEnricher_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	e, err := NewHTTPEnricher(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = e.Enrich(context.Background(), "tpl-atelier")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnrichmentUnavailable)
}
