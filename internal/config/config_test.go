package config

import (
	"testing"
	"time"

	"log/slog"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout %v, got %v", defaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.OpenAI.Model != defaultOpenAIModel {
		t.Errorf("expected default model %q, got %q", defaultOpenAIModel, cfg.OpenAI.Model)
	}
	if cfg.OpenAI.RequestsPerMin != defaultOpenAIRPM {
		t.Errorf("expected default rpm %d, got %d", defaultOpenAIRPM, cfg.OpenAI.RequestsPerMin)
	}
	if cfg.Auth.TokenDuration != defaultTokenDuration {
		t.Errorf("expected default token duration %v, got %v", defaultTokenDuration, cfg.Auth.TokenDuration)
	}
	if cfg.Database.MaxConnections != defaultMaxConnections {
		t.Errorf("expected default max connections %d, got %d", defaultMaxConnections, cfg.Database.MaxConnections)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                  "9090",
		"SERVER_READ_TIMEOUT_SECONDS":  "30",
		"SERVER_WRITE_TIMEOUT_SECONDS": "45",
		"LOG_LEVEL":                    "debug",
		"LOG_FORMAT":                   "text",
		"OPENAI_MODEL":                 "gpt-4o",
		"OPENAI_TIMEOUT_SECONDS":       "60",
		"OPENAI_REQUESTS_PER_MINUTE":   "20",
		"DB_MAX_CONNECTIONS":           "50",
		"TOKEN_DURATION_HOURS":         "8",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected overridden port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout %v, got %v", 30*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.Logging.Level)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Timeout != 60*time.Second {
		t.Errorf("expected openai timeout %v, got %v", 60*time.Second, cfg.OpenAI.Timeout)
	}
	if cfg.OpenAI.RequestsPerMin != 20 {
		t.Errorf("expected 20 rpm, got %d", cfg.OpenAI.RequestsPerMin)
	}
	if cfg.Database.MaxConnections != 50 {
		t.Errorf("expected 50 max connections, got %d", cfg.Database.MaxConnections)
	}
	if cfg.Auth.TokenDuration != 8*time.Hour {
		t.Errorf("expected token duration %v, got %v", 8*time.Hour, cfg.Auth.TokenDuration)
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_READ_TIMEOUT_SECONDS":  "-1",
		"SERVER_WRITE_TIMEOUT_SECONDS": "abc",
		"LOG_LEVEL":                    "verbose",
		"LOG_FORMAT":                   "xml",
		"OPENAI_TEMPERATURE":           "3.5",
		"OPENAI_REQUESTS_PER_MINUTE":   "0",
		"DB_MAX_CONNECTIONS":           "-2",
		"TOKEN_DURATION_HOURS":         "never",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s=%q", key, value)
			}
		})
	}
}

func TestParseLogLevelAliases(t *testing.T) {
	tests := map[string]slog.Level{
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
	}

	for input, expected := range tests {
		level, err := parseLogLevel(input)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", input, err)
		}

		if level != expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, level, expected)
		}
	}
}

func TestParseSecondsRejectsInvalidInput(t *testing.T) {
	cases := []string{"-1", "abc", "3.5"}

	for _, input := range cases {
		if _, err := parseSeconds(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"DB_MAX_CONNECTIONS",
		"OPENAI_API_KEY",
		"OPENAI_MODEL",
		"OPENAI_TEMPERATURE",
		"OPENAI_TIMEOUT_SECONDS",
		"OPENAI_REQUESTS_PER_MINUTE",
		"JWT_SECRET",
		"TOKEN_DURATION_HOURS",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
