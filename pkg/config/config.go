// Package config resolves the settings importctl needs to talk to the
// control-plane API: the base URL, the signing key/secret pair, and the
// per-request timeout. Values may come from command-line flags or from
// environment variables; flags always win.
package config

import (
	"os"
	"time"
)

const (
	envAPIURL    = "SCALR_API_URL"
	envAPIKey    = "SCALR_API_KEY"
	envAPISecret = "SCALR_API_SECRET"

	// DefaultTimeout is used when no --timeout flag is given.
	DefaultTimeout = 30 * time.Second
)

// Config holds everything the Executor needs to run.
type Config struct {
	// APIURL is the base URL of the control-plane API, e.g.
	// "https://my-scalr.example.com".
	APIURL string
	// APIKey and APISecret form the HMAC signing credential pair.
	APIKey    string
	APISecret string
	// Timeout bounds a single HTTP request made by the apiclient.
	Timeout time.Duration
	// PlanFile is the path to the Plan YAML the Executor should run.
	PlanFile string
	// DryRun suppresses all post actions; see pkg/executor.
	DryRun bool
}

// Flags is the raw set of values a cobra command collects from its flags,
// before environment fallback and validation are applied.
type Flags struct {
	APIURL    string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	PlanFile  string
	DryRun    bool
}

// Resolve builds a validated Config from CLI flags, falling back to
// environment variables for any credential left empty on the command line.
func Resolve(f Flags) (*Config, error) {
	cfg := &Config{
		APIURL:    firstNonEmpty(f.APIURL, os.Getenv(envAPIURL)),
		APIKey:    firstNonEmpty(f.APIKey, os.Getenv(envAPIKey)),
		APISecret: firstNonEmpty(f.APISecret, os.Getenv(envAPISecret)),
		Timeout:   f.Timeout,
		PlanFile:  f.PlanFile,
		DryRun:    f.DryRun,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	verrs := &ValidationErrors{}

	if cfg.APIURL == "" {
		verrs.Add("api url: must be set via --url or %s", envAPIURL)
	}
	if cfg.APIKey == "" {
		verrs.Add("api key: must be set via --key or %s", envAPIKey)
	}
	if cfg.APISecret == "" {
		verrs.Add("api secret: must be set via --secret or %s", envAPISecret)
	}
	if cfg.PlanFile == "" {
		verrs.Add("plan file: must be set via --plan")
	}

	if !verrs.IsEmpty() {
		return &ConfigError{Reason: verrs.Error()}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
