package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	assert.Equal(t, 26658, cfg.Port)
	assert.Equal(t, 300*time.Second, cfg.CloseTimeout)
	assert.False(t, cfg.SelfStopOnIdle)
	assert.Equal(t, "127.0.0.1:26659", cfg.AdminAddr, "health endpoint is on by default")
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	os.Setenv("ABCI_PORT", "9000")
	os.Setenv("ABCI_SELF_STOP_ON_IDLE", "true")
	defer os.Unsetenv("ABCI_PORT")
	defer os.Unsetenv("ABCI_SELF_STOP_ON_IDLE")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.SelfStopOnIdle)
	assert.Equal(t, "0.0.0.0", cfg.Host, "unset keys still fall back to defaults")
}
