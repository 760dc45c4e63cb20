package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	t.Run("DevelopmentModeLogsDebug", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		logger := setupLogger("development")
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("ProductionModeLogsInfoAndUp", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		logger := setupLogger("production")
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("EnvironmentOverridesConfigMode", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		logger := setupLogger("development")
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})
}
