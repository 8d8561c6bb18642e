package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                "8480",
		JWTSecret:           "a-reasonably-long-development-secret!!",
		Env:                 "development",
		PageSize:            20,
		ViewThrottleMinutes: 30,
		SnapshotTTLHours:    24,
		NotifReadSetCap:     200,
		DeleteChunkSize:     400,
	}
}

func TestValidate_RequiresPortAndSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiresPositiveKnobs(t *testing.T) {
	cfg := validConfig()
	cfg.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.DeleteChunkSize = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionRejectsDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "this-is-a-sufficiently-long-production-secret"
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionAcceptsStrongValues(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "this-is-a-sufficiently-long-production-secret"
	cfg.DBPassword = "sUp3r-str0ng-p4ss"
	require.NoError(t, cfg.Validate())
}

func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 30*time.Minute, cfg.ViewThrottleWindow())
	assert.Equal(t, 24*time.Hour, cfg.SnapshotTTL())
}
