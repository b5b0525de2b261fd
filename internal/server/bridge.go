package server

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bookhaven/internal/sessiontoken"
	"bookhaven/pkg/scroll"
	"bookhaven/pkg/voice"
)

const defaultPageHeight = 4000

// Bridge connects the browser to the server-side assistant. The browser
// reports its location, scroll position and microphone audio; the bridge
// relays navigation and scroll commands back, which makes it the
// assistant's view of the page. With no browser attached it behaves as an
// in-memory surface so tools keep working headlessly.
type Bridge struct {
	verifier *sessiontoken.Verifier
	mic      *voice.ChannelAudioSource
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	writeMu   sync.Mutex
	path      string
	rawQuery  string
	scrollY   float64
	maxScroll float64
}

// NewBridge builds a bridge. verifier may be nil to accept unauthenticated
// local connections (dev mode).
func NewBridge(verifier *sessiontoken.Verifier, mic *voice.ChannelAudioSource) *Bridge {
	return &Bridge{
		verifier: verifier,
		mic:      mic,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:    slog.Default().With("component", "server.bridge"),
		path:      "/",
		maxScroll: defaultPageHeight,
	}
}

// Mic exposes the audio source fed by the connected browser.
func (b *Bridge) Mic() *voice.ChannelAudioSource {
	return b.mic
}

// Surface interface.

func (b *Bridge) Location() (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path, b.rawQuery
}

// Navigate moves the browser (or the headless state) to the target path.
// Unknown paths are allowed through; the resolver classifies them later.
func (b *Bridge) Navigate(target string) error {
	path, rawQuery, _ := strings.Cut(target, "?")
	if path == "" {
		path = "/"
	}
	b.mu.Lock()
	b.path = path
	b.rawQuery = rawQuery
	b.scrollY = 0
	b.mu.Unlock()

	b.send(bridgeEvent{Type: "navigate", Path: target})
	return nil
}

func (b *Bridge) Viewport() scroll.Viewport {
	return (*bridgeViewport)(b)
}

// bridgeViewport adapts the bridge's scroll state to scroll.Viewport.
// Animator ticks land here; each position is mirrored to the browser.
type bridgeViewport Bridge

func (v *bridgeViewport) Y() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollY
}

func (v *bridgeViewport) MaxY() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.maxScroll <= 0 {
		return defaultPageHeight
	}
	return v.maxScroll
}

func (v *bridgeViewport) SetY(y float64) {
	v.mu.Lock()
	if y < 0 {
		y = 0
	}
	if max := v.maxScroll; max > 0 && y > max {
		y = max
	}
	v.scrollY = y
	v.mu.Unlock()
	(*Bridge)(v).send(bridgeEvent{Type: "scrollTo", Y: y})
}

// SendAgentAudio relays agent speech to the browser for playback.
func (b *Bridge) SendAgentAudio(audio []byte) {
	b.send(bridgeEvent{Type: "audio", Data: base64.StdEncoding.EncodeToString(audio)})
}

// SendTranscript relays a finalized transcript entry.
func (b *Bridge) SendTranscript(role, text string) {
	b.send(bridgeEvent{Type: "transcript", Role: role, Text: text})
}

// HandleWS upgrades the connection after verifying the bridge token. A
// new browser connection replaces the previous one.
func (b *Bridge) HandleWS(w http.ResponseWriter, r *http.Request) {
	if b.verifier != nil {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			if bearer, ok := sessiontoken.BearerToken(r); ok {
				token = bearer
			}
		}
		if _, err := b.verifier.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("bridge upgrade failed", "err", err)
		return
	}

	b.mu.Lock()
	old := b.conn
	b.conn = conn
	b.mu.Unlock()
	if old != nil {
		old.Close()
	}
	b.logger.Info("browser attached to bridge")

	go b.readLoop(conn)
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		b.mu.Lock()
		if b.conn == conn {
			b.conn = nil
		}
		b.mu.Unlock()
		b.logger.Info("browser detached from bridge")
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg bridgeEvent
		if err := json.Unmarshal(data, &msg); err != nil {
			b.logger.Warn("unparseable bridge message", "err", err)
			continue
		}
		b.handleIncoming(msg)
	}
}

func (b *Bridge) handleIncoming(msg bridgeEvent) {
	switch msg.Type {
	case "location":
		b.mu.Lock()
		if msg.Path != "" {
			b.path = msg.Path
		}
		b.rawQuery = msg.Query
		b.scrollY = msg.Y
		if msg.MaxY > 0 {
			b.maxScroll = msg.MaxY
		}
		b.mu.Unlock()

	case "audio":
		if b.mic == nil {
			return
		}
		frame, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			b.logger.Warn("bad audio frame", "err", err)
			return
		}
		b.mic.Push(frame)

	default:
		b.logger.Debug("unhandled bridge message", "type", msg.Type)
	}
}

func (b *Bridge) send(ev bridgeEvent) {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		b.logger.Warn("bridge write failed", "err", err)
	}
}

type bridgeEvent struct {
	Type  string  `json:"type"`
	Path  string  `json:"path,omitempty"`
	Query string  `json:"query,omitempty"`
	Y     float64 `json:"y,omitempty"`
	MaxY  float64 `json:"maxY,omitempty"`
	Data  string  `json:"data,omitempty"`
	Role  string  `json:"role,omitempty"`
	Text  string  `json:"text,omitempty"`
}
