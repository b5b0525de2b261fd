package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis-prod:6379")
	t.Setenv("BOOKHAVEN_CHAT_RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfgPath := writeConfig(t, `
port: "8080"
logLevel: "info"
redisAddr: "localhost:6379"
chatProvider: "anthropic"
chatModel: "claude-sonnet-4-20250514"
chatRateLimitPerMinute: 10
`)
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RedisAddr != "redis-prod:6379" {
		t.Fatalf("redisAddr = %q, want env override", cfg.RedisAddr)
	}
	if cfg.ChatRateLimitPerMinute != 30 {
		t.Fatalf("chatRateLimitPerMinute = %d, want 30", cfg.ChatRateLimitPerMinute)
	}
	if cfg.AnthropicAPIKey != "sk-ant-test" {
		t.Fatalf("anthropicAPIKey = %q", cfg.AnthropicAPIKey)
	}
	if cfg.SnapshotBackend != SnapshotBackendRedis {
		t.Fatalf("snapshotBackend = %q, want redis default", cfg.SnapshotBackend)
	}
}

func TestLoadValidatesSnapshotBackend(t *testing.T) {
	cfgPath := writeConfig(t, `
port: "8080"
redisAddr: "localhost:6379"
snapshotBackend: "file"
`)
	if _, err := Load(cfgPath); err == nil || !strings.Contains(err.Error(), "snapshotDir") {
		t.Fatalf("err = %v, want snapshotDir requirement", err)
	}

	cfgPath = writeConfig(t, `
port: "8080"
redisAddr: "localhost:6379"
snapshotBackend: "s3"
`)
	if _, err := Load(cfgPath); err == nil || !strings.Contains(err.Error(), "snapshotBackend") {
		t.Fatalf("err = %v, want unknown backend error", err)
	}
}

func TestLoadRequiresPortAndRedis(t *testing.T) {
	cfgPath := writeConfig(t, `
logLevel: "debug"
`)
	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected error for missing port")
	}

	cfgPath = writeConfig(t, `
port: "8080"
`)
	if _, err := Load(cfgPath); err == nil || !strings.Contains(err.Error(), "redisAddr") {
		t.Fatalf("err = %v, want redisAddr requirement", err)
	}
}

func TestLoadRelayModeNeedsSecret(t *testing.T) {
	cfgPath := writeConfig(t, `
port: "8080"
redisAddr: "localhost:6379"
voiceRelayMode: true
`)
	if _, err := Load(cfgPath); err == nil || !strings.Contains(err.Error(), "sessionTokenSecret") {
		t.Fatalf("err = %v, want sessionTokenSecret requirement", err)
	}
}
