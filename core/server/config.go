package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// PlanCacheSeconds is how long GET /lighting/plan results are reused.
	PlanCacheSeconds int `mapstructure:"plan_cache_seconds" default:"30"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// IsProtected reports whether requests must carry the API key.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}

// PlanTTL returns the plan cache lifetime. Negative values disable caching.
func (c Config) PlanTTL() time.Duration {
	if c.PlanCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PlanCacheSeconds) * time.Second
}
