package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/html")

		_, _ = w.Write([]byte("<html><body><h1>Install</h1></body></html>"))
	}))
	defer srv.Close()

	html, err := New().Fetch(context.Background(), srv.URL+"/core/installation")
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Install</h1>")
}

func TestFetchStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestFetchTruncatesHugePages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	f := New()
	f.maxBody = 16

	html, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Len(t, html, 16)
}

func TestFetchCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Fetch(ctx, "http://127.0.0.1:0/")
	require.Error(t, err)
}
