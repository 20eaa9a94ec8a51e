package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/config/configs"
)

func TestNewUsesDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(configs.Logger{Format: "json"}, &buf, slog.LevelWarn)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.log")
	var buf bytes.Buffer
	logger, closer := New(configs.Logger{Level: "debug", File: path, MaxSizeMB: 1}, &buf, slog.LevelWarn)

	logger.Debug("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, buf.String())
}
