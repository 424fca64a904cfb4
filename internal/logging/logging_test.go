package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, closer, err := Setup("debug", "", &buf)
	require.NoError(t, err)
	defer closer()

	logger.Info().Str("url", "https://docs.crawl4ai.com/").Msg("fetched")

	out := buf.String()
	assert.Contains(t, out, "fetched")
	assert.Contains(t, out, "docs.crawl4ai.com")
}

func TestSetupLevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, closer, err := Setup("warn", "", &buf)
	require.NoError(t, err)
	defer closer()

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestSetupDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, closer, err := Setup("", "", &buf)
	require.NoError(t, err)
	defer closer()

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestSetupBadLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, _, err := Setup("shouting", "", &buf)
	require.Error(t, err)
}

func TestSetupFileGetsJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")

	var buf bytes.Buffer

	logger, closer, err := Setup("info", path, &buf)
	require.NoError(t, err)

	logger.Info().Str("stage", "crawl").Msg("started")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var event map[string]any

	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &event))
	assert.Equal(t, "started", event["message"])
	assert.Equal(t, "crawl", event["stage"])
}
