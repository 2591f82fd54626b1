package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironmentWithoutEnvFile(t *testing.T) {
	t.Setenv("TSFLOW_START_TIME", "2024-01-01T00:00:00Z")
	t.Setenv("TSFLOW_END_TIME", "2024-01-02T00:00:00Z")
	t.Setenv("TSFLOW_MODE", "backtest")
	t.Setenv("TSFLOW_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, RunModeBackTest, cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.EndTime.After(cfg.StartTime))
}

func TestLoadRejectsMalformedTime(t *testing.T) {
	t.Setenv("TSFLOW_START_TIME", "not-a-time")
	_, err := Load("")
	assert.Error(t, err)
}
