package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// Snapshot backend names.
const (
	SnapshotBackendRedis    = "redis"
	SnapshotBackendFile     = "file"
	SnapshotBackendPostgres = "postgres"
)

// Chat provider names.
const (
	ChatProviderAnthropic = "anthropic"
	ChatProviderOpenAI    = "openai"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	// SnapshotBackend selects where cart/wishlist snapshots live:
	// redis, file or postgres.
	SnapshotBackend string `yaml:"snapshotBackend"`
	SnapshotDir     string `yaml:"snapshotDir"`
	DatabaseURL     string `yaml:"databaseURL"`

	ChatProvider     string `yaml:"chatProvider"`
	ChatModel        string `yaml:"chatModel"`
	ChatMaxTokens    int    `yaml:"chatMaxTokens"`
	AnthropicAPIKey  string `yaml:"anthropicAPIKey"`
	AnthropicBaseURL string `yaml:"anthropicBaseURL"`
	OpenAIBaseURL    string `yaml:"openaiBaseURL"`
	OpenAIAPIKey     string `yaml:"openaiAPIKey"`

	ChatRateLimitPerMinute int      `yaml:"chatRateLimitPerMinute"`
	TrustedProxyCIDRs      []string `yaml:"trustedProxyCidrs"`
	AllowedOrigins         []string `yaml:"allowedOrigins"`

	// Voice settings. In relay mode the signed-url endpoint mints a
	// token for the local /ws/voice bridge instead of proxying the
	// upstream agent platform.
	VoiceAgentID       string `yaml:"voiceAgentID"`
	VoiceAPIKey        string `yaml:"voiceAPIKey"`
	VoiceSignedURLBase string `yaml:"voiceSignedURLBase"`
	VoiceRelayMode     bool   `yaml:"voiceRelayMode"`
	SessionTokenSecret string `yaml:"sessionTokenSecret"`
	PublicBaseURL      string `yaml:"publicBaseURL"`

	TTSBaseURL string `yaml:"ttsBaseURL"`
	TTSAPIKey  string `yaml:"ttsAPIKey"`
	TTSVoiceID string `yaml:"ttsVoiceID"`

	// MCPStdio serves the assistant tool registry over MCP on
	// stdin/stdout alongside the HTTP server.
	MCPStdio bool `yaml:"mcpStdio"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("BOOKHAVEN_SNAPSHOT_BACKEND"); v != "" {
		cfg.SnapshotBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKHAVEN_SNAPSHOT_DIR"); v != "" {
		cfg.SnapshotDir = strings.TrimSpace(v)
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("BOOKHAVEN_CHAT_PROVIDER"); v != "" {
		cfg.ChatProvider = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKHAVEN_CHAT_MODEL"); v != "" {
		cfg.ChatModel = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKHAVEN_CHAT_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChatRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("BOOKHAVEN_TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitCSV(v)
	}
	if v := os.Getenv("BOOKHAVEN_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("BOOKHAVEN_MCP_STDIO"); v != "" {
		cfg.MCPStdio = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VOICE_AGENT_ID"); v != "" {
		cfg.VoiceAgentID = strings.TrimSpace(v)
	}
	if v := os.Getenv("VOICE_API_KEY"); v != "" {
		cfg.VoiceAPIKey = v
	}
	if v := os.Getenv("SESSION_TOKEN_SECRET"); v != "" {
		cfg.SessionTokenSecret = v
	}
	if v := os.Getenv("TTS_API_KEY"); v != "" {
		cfg.TTSAPIKey = v
	}
	if err := validateConfig(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg *FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required for rate limiting and caching")
	}
	if cfg.SnapshotBackend == "" {
		cfg.SnapshotBackend = SnapshotBackendRedis
	}
	switch cfg.SnapshotBackend {
	case SnapshotBackendRedis:
	case SnapshotBackendFile:
		if strings.TrimSpace(cfg.SnapshotDir) == "" {
			return errors.New("config: snapshotDir is required for the file snapshot backend")
		}
	case SnapshotBackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return errors.New("config: databaseURL is required for the postgres snapshot backend")
		}
	default:
		return fmt.Errorf("config: unknown snapshotBackend %q", cfg.SnapshotBackend)
	}
	if cfg.ChatProvider == "" {
		cfg.ChatProvider = ChatProviderAnthropic
	}
	if cfg.ChatProvider != ChatProviderAnthropic && cfg.ChatProvider != ChatProviderOpenAI {
		return fmt.Errorf("config: unknown chatProvider %q", cfg.ChatProvider)
	}
	if cfg.ChatRateLimitPerMinute < 0 {
		return errors.New("config: chatRateLimitPerMinute must be >= 0")
	}
	if cfg.VoiceRelayMode && strings.TrimSpace(cfg.SessionTokenSecret) == "" {
		return errors.New("config: sessionTokenSecret is required in voice relay mode")
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
