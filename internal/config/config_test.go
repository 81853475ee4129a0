package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "llm:\n  api_key: test-key\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want :8000", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want two localhost defaults", cfg.Server.AllowedOrigins)
	}
	if cfg.Logger.Level != "info" || !cfg.Logger.JSON {
		t.Errorf("logger defaults = %+v", cfg.Logger)
	}
	if cfg.LLM.Backend != "openai" {
		t.Errorf("LLM.Backend = %q, want openai", cfg.LLM.Backend)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("LLM.APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gemini-2.5-pro" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.Market.Timeout != 5*time.Second {
		t.Errorf("Market.Timeout = %v, want 5s", cfg.Market.Timeout)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.ChangeThreshold != 10.0 {
		t.Errorf("monitor defaults = %+v", cfg.Monitor)
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("WW_LLM_API_KEY", "env-key")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("LLM.APIKey = %q, want env-key", cfg.LLM.APIKey)
	}
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "logger:\n  level: debug\n")); err == nil {
		t.Fatal("LoadConfig() should fail without an API key")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad log level",
			content: "llm:\n  api_key: k\nlogger:\n  level: loud\n",
		},
		{
			name:    "bad backend",
			content: "llm:\n  api_key: k\n  backend: oracle\n",
		},
		{
			name:    "zero volatility threshold",
			content: "llm:\n  api_key: k\nmonitor:\n  change_threshold: 0\n",
		},
		{
			name:    "malformed yaml",
			content: "llm: [unclosed\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Error("LoadConfig() should have failed")
			}
		})
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	content := "llm:\n  api_key: k\nserver:\n  addr: \":9090\"\nlogger:\n  level: warn\n  json: false\n"
	cfg, err := LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Logger.Level != "warn" || cfg.Logger.JSON {
		t.Errorf("logger = %+v, want warn/text", cfg.Logger)
	}
}
