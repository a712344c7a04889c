package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"production-scheduler/internal/config"
)

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	local := setupLogger(envLocal, config.Log{})
	assert.IsType(t, &slog.TextHandler{}, local.Handler())
	assert.True(t, local.Enabled(ctx, slog.LevelDebug))

	dev := setupLogger(envDev, config.Log{})
	assert.IsType(t, &slog.JSONHandler{}, dev.Handler())

	prod := setupLogger(envProd, config.Log{})
	assert.IsType(t, &slog.TextHandler{}, prod.Handler())
	assert.False(t, prod.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prod.Enabled(ctx, slog.LevelInfo))

	withFile := setupLogger(envLocal, config.Log{ErrorFile: filepath.Join(t.TempDir(), "errors.log"), MaxSizeMB: 1})
	assert.IsType(t, &dualHandler{}, withFile.Handler())
}
