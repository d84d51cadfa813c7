package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "black-forest-labs/flux-schnell", cfg.ReplicateModel)
	assert.Equal(t, 55*time.Second, cfg.CreateTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 20, cfg.PollMaxAttempts)
}

func TestLoadConfig_RejectsNonPositiveBudgets(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero attempts", key: "POLL_MAX_ATTEMPTS", value: "0"},
		{name: "negative attempts", key: "POLL_MAX_ATTEMPTS", value: "-3"},
		{name: "zero interval", key: "POLL_INTERVAL", value: "0s"},
		{name: "negative poll timeout", key: "POLL_TIMEOUT", value: "-1s"},
		{name: "zero create timeout", key: "CREATE_TIMEOUT", value: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REPLICATE_API_TOKEN", "")
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadConfig_UnparseableDuration(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := loadConfig()
	assert.ErrorContains(t, err, "parsing env config")
}

func TestSetupServices_RejectsZeroAttemptsWithoutToken(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "")
	t.Setenv("POLL_MAX_ATTEMPTS", "0")

	_, err := setupServices()
	assert.ErrorContains(t, err, "POLL_MAX_ATTEMPTS")
}
