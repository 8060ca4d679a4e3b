package config

import (
	"os"
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
	if cfg.Server.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", defaultWriteTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.Database.MigrationsDir != defaultMigrationsDir {
		t.Errorf("expected default migrations dir %q, got %q", defaultMigrationsDir, cfg.Database.MigrationsDir)
	}
	if cfg.Aggregation.RunBudget != defaultRunBudget {
		t.Errorf("expected default run budget %v, got %v", defaultRunBudget, cfg.Aggregation.RunBudget)
	}
	if cfg.Aggregation.FetchTimeout != defaultFetchTimeout {
		t.Errorf("expected default fetch timeout %v, got %v", defaultFetchTimeout, cfg.Aggregation.FetchTimeout)
	}
	if cfg.Aggregation.CacheTTL != defaultCacheTTL {
		t.Errorf("expected default cache TTL %v, got %v", defaultCacheTTL, cfg.Aggregation.CacheTTL)
	}
	if cfg.Aggregation.Interval != 0 {
		t.Errorf("expected scheduler disabled by default, got interval %v", cfg.Aggregation.Interval)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                       "9090",
		"SERVER_READ_TIMEOUT_SECONDS":       "30",
		"SERVER_WRITE_TIMEOUT_SECONDS":      "45",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS":   "15",
		"LOG_LEVEL":                         "debug",
		"LOG_FORMAT":                        "text",
		"DATABASE_URL":                      "postgres://localhost/rocksalt_test",
		"MIGRATIONS_DIR":                    "db/migrations",
		"AGGREGATION_RUN_BUDGET_SECONDS":    "300",
		"AGGREGATION_FETCH_TIMEOUT_SECONDS": "10",
		"AGGREGATION_CACHE_TTL_SECONDS":     "600",
		"AGGREGATION_INTERVAL_MINUTES":      "60",
		"BANDSINTOWN_APP_ID":                "rocksalt-dev",
		"SONGKICK_API_KEY":                  "sk-test",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != overrides["SERVER_PORT"] {
		t.Errorf("expected overridden port %q, got %q", overrides["SERVER_PORT"], cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout %v, got %v", 30*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 45*time.Second {
		t.Errorf("expected write timeout %v, got %v", 45*time.Second, cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected shutdown timeout %v, got %v", 15*time.Second, cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.Logging.Level)
	}
	if cfg.Logging.Format != overrides["LOG_FORMAT"] {
		t.Errorf("expected log format %q, got %q", overrides["LOG_FORMAT"], cfg.Logging.Format)
	}
	if cfg.Database.URL != overrides["DATABASE_URL"] {
		t.Errorf("expected database URL %q, got %q", overrides["DATABASE_URL"], cfg.Database.URL)
	}
	if cfg.Database.MigrationsDir != overrides["MIGRATIONS_DIR"] {
		t.Errorf("expected migrations dir %q, got %q", overrides["MIGRATIONS_DIR"], cfg.Database.MigrationsDir)
	}
	if cfg.Aggregation.RunBudget != 300*time.Second {
		t.Errorf("expected run budget %v, got %v", 300*time.Second, cfg.Aggregation.RunBudget)
	}
	if cfg.Aggregation.FetchTimeout != 10*time.Second {
		t.Errorf("expected fetch timeout %v, got %v", 10*time.Second, cfg.Aggregation.FetchTimeout)
	}
	if cfg.Aggregation.CacheTTL != 600*time.Second {
		t.Errorf("expected cache TTL %v, got %v", 600*time.Second, cfg.Aggregation.CacheTTL)
	}
	if cfg.Aggregation.Interval != time.Hour {
		t.Errorf("expected interval %v, got %v", time.Hour, cfg.Aggregation.Interval)
	}
	if cfg.Curation.BandsintownAppID != overrides["BANDSINTOWN_APP_ID"] {
		t.Errorf("expected bandsintown app id %q, got %q", overrides["BANDSINTOWN_APP_ID"], cfg.Curation.BandsintownAppID)
	}
	if cfg.Curation.SongkickAPIKey != overrides["SONGKICK_API_KEY"] {
		t.Errorf("expected songkick api key %q, got %q", overrides["SONGKICK_API_KEY"], cfg.Curation.SongkickAPIKey)
	}
}

func TestLoadPrefersPlatformPort(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "7777")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "7777" {
		t.Errorf("expected PORT to win, got %q", cfg.Server.Port)
	}
}

func TestLoadPartialOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected overridden read timeout %v, got %v", 5*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", defaultWriteTimeout, cfg.Server.WriteTimeout)
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_READ_TIMEOUT_SECONDS":       "-1",
		"SERVER_WRITE_TIMEOUT_SECONDS":      "abc",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS":   "3.5",
		"AGGREGATION_RUN_BUDGET_SECONDS":    "never",
		"AGGREGATION_FETCH_TIMEOUT_SECONDS": "-30",
		"AGGREGATION_CACHE_TTL_SECONDS":     "1h",
		"AGGREGATION_INTERVAL_MINUTES":      "-5",
		"LOG_LEVEL":                         "verbose",
		"LOG_FORMAT":                        "xml",
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
	cases := []string{"-1", "abc"}

	for _, input := range cases {
		if _, err := parseSeconds(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func TestLoadDoesNotPersistEnvBetweenRuns(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Unsetenv("SERVER_READ_TIMEOUT_SECONDS"); err != nil {
		t.Fatalf("failed to unset env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout after reset, got %v", cfg.Server.ReadTimeout)
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
		"MIGRATIONS_DIR",
		"AGGREGATION_RUN_BUDGET_SECONDS",
		"AGGREGATION_FETCH_TIMEOUT_SECONDS",
		"AGGREGATION_CACHE_TTL_SECONDS",
		"AGGREGATION_INTERVAL_MINUTES",
		"BANDSINTOWN_APP_ID",
		"SONGKICK_API_KEY",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
