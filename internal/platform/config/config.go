// Package config reads service configuration from the environment so main
// stays lean. Every credential-bearing value (API key, portal URL/cookie) is
// externally supplied, never baked into code.
package config

import (
	"os"
	"time"
)

// Config captures the full service configuration.
type Config struct {
	Addr string

	// ProviderTimeout is the uniform ceiling applied to every provider
	// attempt by the resolver.
	ProviderTimeout time.Duration

	// RequestTimeout bounds a whole inbound request, chain included.
	RequestTimeout time.Duration

	CacheTTL time.Duration

	Redis      RedisConfig
	APICPF     APICPFConfig
	ConsultaBR ConsultaBRConfig
	Portal     PortalConfig
}

// RedisConfig configures the optional shared result cache. An empty URL
// disables Redis and the service falls back to the in-memory store.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// APICPFConfig configures the primary identity API.
type APICPFConfig struct {
	BaseURL string
	APIKey  string
}

// ConsultaBRConfig configures the secondary scraped-data API.
type ConsultaBRConfig struct {
	BaseURL string
}

// PortalConfig configures the legacy portal. The session cookie expires;
// leaving URL empty disables the provider entirely.
type PortalConfig struct {
	URL    string
	Cookie string
}

// FromEnv builds the configuration from environment variables with defaults
// suitable for local development.
func FromEnv() Config {
	return Config{
		Addr:            envOr("CONSULTA_ADDR", ":8080"),
		ProviderTimeout: envDuration("PROVIDER_TIMEOUT", 10*time.Second),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 35*time.Second),
		CacheTTL:        envDuration("CACHE_TTL", 5*time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		APICPF: APICPFConfig{
			BaseURL: envOr("APICPF_BASE_URL", "https://api.apicpf.com"),
			APIKey:  os.Getenv("APICPF_API_KEY"),
		},
		ConsultaBR: ConsultaBRConfig{
			BaseURL: envOr("CONSULTABR_BASE_URL", "https://consultabr.net"),
		},
		Portal: PortalConfig{
			URL:    os.Getenv("PORTAL_URL"),
			Cookie: os.Getenv("PORTAL_COOKIE"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
