package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, time.Second, cfg.SweepInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":8080")
	t.Setenv("SWEEP_INTERVAL", "250ms")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.SweepInterval)
}
