package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FlagsOnly(t *testing.T) {
	cfg, err := Resolve(Flags{
		APIURL:    "https://scalr.example.com",
		APIKey:    "key",
		APISecret: "secret",
		PlanFile:  "plan.yml",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://scalr.example.com", cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.False(t, cfg.DryRun)
}

func TestResolve_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "https://from-env.example.com")
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envAPISecret, "env-secret")

	cfg, err := Resolve(Flags{PlanFile: "plan.yml"})
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.APIURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-secret", cfg.APISecret)
}

func TestResolve_FlagsOverrideEnv(t *testing.T) {
	t.Setenv(envAPIURL, "https://from-env.example.com")

	cfg, err := Resolve(Flags{
		APIURL:    "https://from-flag.example.com",
		APIKey:    "k",
		APISecret: "s",
		PlanFile:  "plan.yml",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://from-flag.example.com", cfg.APIURL)
}

func TestResolve_MissingRequiredFields(t *testing.T) {
	_, err := Resolve(Flags{})
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "api url")
	assert.Contains(t, cfgErr.Reason, "api key")
	assert.Contains(t, cfgErr.Reason, "api secret")
	assert.Contains(t, cfgErr.Reason, "plan file")
}

func TestResolve_CustomTimeout(t *testing.T) {
	cfg, err := Resolve(Flags{
		APIURL:    "https://scalr.example.com",
		APIKey:    "k",
		APISecret: "s",
		PlanFile:  "plan.yml",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestValidationErrors_Error(t *testing.T) {
	ve := &ValidationErrors{}
	assert.True(t, ve.IsEmpty())

	ve.Add("field a: %s", "bad")
	assert.Equal(t, "field a: bad", ve.Error())

	ve.Add("field b: %s", "also bad")
	assert.Contains(t, ve.Error(), "2 validation errors occurred")
}
