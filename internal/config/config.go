// Package config loads SDK-level defaults from the environment. These
// are fallbacks only — every value here can be overridden per-Client
// via functional options in pkg/ethos.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-derived defaults for a Client.
type Config struct {
	Region             string
	ExpirationMinutes  int
	ConnectTimeout     time.Duration
	RequestTimeout     time.Duration
	SocketTimeout      time.Duration
	DefaultPageSize    int
	Telemetry          TelemetryConfig
}

// TelemetryConfig controls the optional OTel tracing wrapper.
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Region:            envStr("ETHOS_REGION", "us"),
		ExpirationMinutes: envInt("ETHOS_EXPIRATION_MINUTES", 60),
		ConnectTimeout:    envSeconds("ETHOS_CONNECT_TIMEOUT_SECONDS", 60),
		RequestTimeout:    envSeconds("ETHOS_REQUEST_TIMEOUT_SECONDS", 60),
		SocketTimeout:     envSeconds("ETHOS_SOCKET_TIMEOUT_SECONDS", 60),
		DefaultPageSize:   envInt("ETHOS_DEFAULT_PAGE_SIZE", 25),
		Telemetry: TelemetryConfig{
			Enabled:      envBool("ETHOS_OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "integration-sdk-go"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envSeconds(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Second
}
