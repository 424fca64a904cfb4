package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRegister(t *testing.T) {
	before := testutil.ToFloat64(PagesConvertedTotal.WithLabelValues("converted"))

	PagesConvertedTotal.WithLabelValues("converted").Inc()

	after := testutil.ToFloat64(PagesConvertedTotal.WithLabelValues("converted"))
	assert.Equal(t, before+1, after)
}

func TestHandlerScrapes(t *testing.T) {
	PagesCrawledTotal.WithLabelValues("ok").Inc()
	GenerateLatencySeconds.WithLabelValues("gemini").Observe(0.25)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "sitemd_pages_crawled_total")
	assert.Contains(t, string(body), "sitemd_generate_latency_seconds")
}
