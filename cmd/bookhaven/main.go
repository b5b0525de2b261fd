package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"bookhaven/internal/config"
	"bookhaven/internal/mcp"
	"bookhaven/internal/ratelimit"
	"bookhaven/internal/server"
	"bookhaven/internal/sessiontoken"
	"bookhaven/internal/util"
	"bookhaven/pkg/ai"
	"bookhaven/pkg/assistant"
	"bookhaven/pkg/catalog"
	"bookhaven/pkg/enrich"
	"bookhaven/pkg/store"
	"bookhaven/pkg/tts"
	"bookhaven/pkg/voice"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := util.InitLogger(cfg.LogLevel)

	snaps, err := newSnapshots(cfg)
	if err != nil {
		util.Fatal("failed to init snapshot backend", "backend", cfg.SnapshotBackend, "err", err)
	}

	cart := store.NewCartStore(snaps)
	if err := cart.Load(); err != nil {
		logger.Warn("cart snapshot load failed, starting empty", "err", err)
	}
	wishlist := store.NewWishlistStore(snaps)
	if err := wishlist.Load(); err != nil {
		logger.Warn("wishlist snapshot load failed, starting empty", "err", err)
	}
	actions := store.NewActionLog(store.DefaultActionLogCap)
	books := catalog.New(nil)

	var verifier *sessiontoken.Verifier
	var minter *sessiontoken.Minter
	if cfg.VoiceRelayMode {
		minter, err = sessiontoken.NewMinter(cfg.SessionTokenSecret, 0)
		if err != nil {
			util.Fatal("failed to init session token minter", "err", err)
		}
		verifier, err = sessiontoken.NewVerifier(cfg.SessionTokenSecret, 0)
		if err != nil {
			util.Fatal("failed to init session token verifier", "err", err)
		}
	}

	mic := voice.NewChannelAudioSource()
	bridge := server.NewBridge(verifier, mic)

	deps := assistant.Deps{
		Catalog:  books,
		Cart:     cart,
		Wishlist: wishlist,
		Log:      actions,
		Surface:  bridge,
	}
	registry := assistant.NewRegistry(deps)

	gen, err := newGenerator(cfg)
	if err != nil {
		util.Fatal("failed to init chat generator", "provider", cfg.ChatProvider, "err", err)
	}
	chat := assistant.NewChatService(deps, gen)

	credential := signedURLCredential(cfg.VoiceSignedURLBase, cfg.VoiceAPIKey, cfg.VoiceAgentID)
	controller := voice.NewController(voice.NewAgentProvider(), mic, credential, registry)
	controller.OnAgentAudio = bridge.SendAgentAudio
	controller.OnTranscript = bridge.SendTranscript

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	}
	enricher := enrich.NewClient(rdb)

	var ttsClient *tts.Client
	if cfg.TTSBaseURL != "" {
		ttsClient = tts.NewClient(cfg.TTSBaseURL, cfg.TTSAPIKey)
	}

	var limiter *ratelimit.FixedWindowLimiter
	if cfg.ChatRateLimitPerMinute > 0 {
		limiter, err = ratelimit.NewFixedWindowLimiter(rdb, "bookhaven:ratelimit", cfg.ChatRateLimitPerMinute, time.Minute)
		if err != nil {
			util.Fatal("failed to init rate limiter", "err", err)
		}
	}

	proxies, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		util.Fatal("failed to parse trusted proxy cidrs", "err", err)
	}

	httpServer := server.New(server.Config{
		Catalog:        books,
		Cart:           cart,
		Wishlist:       wishlist,
		Actions:        actions,
		Chat:           chat,
		Bridge:         bridge,
		Voice:          controller,
		Enrich:         enricher,
		TTS:            ttsClient,
		TTSVoice:       cfg.TTSVoiceID,
		Limiter:        limiter,
		TrustedProxies: proxies,
		AllowedOrigins: cfg.AllowedOrigins,
		RelayMode:      cfg.VoiceRelayMode,
		TokenMinter:    minter,
		PublicBaseURL:  cfg.PublicBaseURL,
		AgentID:        cfg.VoiceAgentID,
		UpstreamBase:   cfg.VoiceSignedURLBase,
		UpstreamKey:    cfg.VoiceAPIKey,
	})

	if cfg.MCPStdio {
		mcpSrv, err := mcp.NewServer(registry)
		if err != nil {
			util.Fatal("failed to init mcp server", "err", err)
		}
		stdioSrv := mcpserver.NewStdioServer(mcpSrv)
		go func() {
			if err := stdioSrv.Listen(context.Background(), os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("mcp stdio server error", "err", err)
			}
		}()
		slog.Info("mcp server started on stdio")
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("bookhaven server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newSnapshots(cfg config.FileConfig) (store.Snapshots, error) {
	switch cfg.SnapshotBackend {
	case config.SnapshotBackendRedis:
		return store.NewRedisSnapshots(cfg.RedisAddr, cfg.RedisPassword), nil
	case config.SnapshotBackendFile:
		return store.NewFileSnapshots(cfg.SnapshotDir)
	case config.SnapshotBackendPostgres:
		return store.NewGormSnapshots(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}

func newGenerator(cfg config.FileConfig) (ai.TextGenerator, error) {
	switch cfg.ChatProvider {
	case config.ChatProviderAnthropic:
		return ai.NewAnthropicGenerator(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.ChatModel, cfg.ChatMaxTokens), nil
	case config.ChatProviderOpenAI:
		return ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ChatModel, cfg.ChatMaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.ChatProvider)
	}
}

// signedURLCredential fetches a signed websocket URL from the voice
// agent platform each time a session starts. Signed URLs are single
// use, so this runs per connection rather than once at boot.
func signedURLCredential(base, apiKey, agentID string) voice.CredentialFunc {
	return func(ctx context.Context) (string, error) {
		trimmed := strings.TrimRight(base, "/")
		if trimmed == "" {
			return "", fmt.Errorf("voice signed url base not configured")
		}
		if agentID == "" {
			return "", fmt.Errorf("voice agent id not configured")
		}
		endpoint := trimmed + "/v1/convai/conversation/get-signed-url?agent_id=" + url.QueryEscape(agentID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("xi-api-key", apiKey)

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("signed url fetch status %s", resp.Status)
		}
		var payload struct {
			SignedURL string `json:"signed_url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", err
		}
		if payload.SignedURL == "" {
			return "", fmt.Errorf("no signed url in response")
		}
		return payload.SignedURL, nil
	}
}
