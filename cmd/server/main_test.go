package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	unsetEnv(t, "HOST", "STATIC_DIR", "LOG_LEVEL", "LOG_DEV", "BLUEPRINTS_CACHE")
	t.Setenv("PORT", "9000")
	t.Setenv("BLUEPRINTS_ROOT", "/from/env")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--root", "/from/flag", "--dev", "--cache"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "/from/flag", cfg.Blueprints.Root)
	assert.True(t, cfg.Logging.Development)
	assert.True(t, cfg.Blueprints.Cache)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	unsetEnv(t, "PORT")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "not-a-port"}))

	_, err := loadConfig(cmd)
	assert.Error(t, err)
}
