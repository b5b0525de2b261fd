package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultReadTimeout      = 60 * time.Second
)

// AgentProvider implements Provider over the ElevenLabs conversational
// agent WebSocket protocol. The signed URL carries the credential, so no
// API key is sent from here.
type AgentProvider struct {
	logger      *slog.Logger
	readTimeout time.Duration

	mu       sync.RWMutex
	conn     *websocket.Conn
	state    ConnectionState
	stopRead context.CancelFunc

	onAudio        func([]byte)
	onAudioDone    func()
	onTranscript   func(role, text string)
	onToolCall     func(id, name string, args map[string]any)
	onInterruption func()
	onError        func(error)
	onDisconnect   func()
}

func NewAgentProvider() *AgentProvider {
	return &AgentProvider{
		logger:      slog.Default().With("component", "voice.provider"),
		readTimeout: defaultReadTimeout,
		state:       StateDisconnected,
	}
}

// Connect dials the signed URL and starts the read loop.
func (p *AgentProvider) Connect(ctx context.Context, signedURL string) error {
	p.mu.Lock()
	if p.state != StateDisconnected {
		p.mu.Unlock()
		return ErrAlreadyConnected
	}
	p.state = StateConnecting
	p.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, signedURL, nil)
	if err != nil {
		p.mu.Lock()
		p.state = StateDisconnected
		p.mu.Unlock()
		return fmt.Errorf("voice: dial agent: %w", err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.conn = conn
	p.state = StateConnected
	p.stopRead = cancel
	p.mu.Unlock()

	go p.readLoop(readCtx)
	p.logger.Info("agent session connected")
	return nil
}

func (p *AgentProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateDisconnected {
		return nil
	}
	if p.stopRead != nil {
		p.stopRead()
	}
	if p.conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		p.conn.Close()
		p.conn = nil
	}
	p.state = StateDisconnected
	p.logger.Info("agent session closed")
	return nil
}

func (p *AgentProvider) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state == StateConnected
}

// SendAudio forwards a chunk of microphone audio as a base64
// user_audio_chunk message.
func (p *AgentProvider) SendAudio(audio []byte) error {
	conn, ok := p.liveConn()
	if !ok {
		return ErrNotConnected
	}
	msg := map[string]string{
		"user_audio_chunk": base64.StdEncoding.EncodeToString(audio),
	}
	return p.writeJSON(conn, msg)
}

func (p *AgentProvider) SubmitToolResult(callID, result string, isError bool) error {
	conn, ok := p.liveConn()
	if !ok {
		return ErrNotConnected
	}
	msg := map[string]any{
		"type":         "client_tool_result",
		"tool_call_id": callID,
		"result":       result,
		"is_error":     isError,
	}
	return p.writeJSON(conn, msg)
}

func (p *AgentProvider) liveConn() (*websocket.Conn, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != StateConnected || p.conn == nil {
		return nil, false
	}
	return p.conn, true
}

func (p *AgentProvider) writeJSON(conn *websocket.Conn, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("voice: marshal: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("voice: write: %w", err)
	}
	return nil
}

func (p *AgentProvider) readLoop(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		disconnected := p.state == StateConnected
		if disconnected {
			p.state = StateDisconnected
		}
		fn := p.onDisconnect
		p.mu.Unlock()
		if disconnected && fn != nil {
			fn()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, ok := p.liveConn()
		if !ok {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(p.readTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			if ctx.Err() == nil {
				p.emitError(fmt.Errorf("voice: read: %w", err))
			}
			return
		}

		var msg agentEvent
		if err := json.Unmarshal(data, &msg); err != nil {
			p.logger.Warn("unparseable agent message", "err", err)
			continue
		}
		p.dispatch(msg)
	}
}

func (p *AgentProvider) dispatch(msg agentEvent) {
	switch msg.Type {
	case "audio":
		encoded := msg.Audio
		if msg.AudioEvent != nil && msg.AudioEvent.AudioBase64 != "" {
			encoded = msg.AudioEvent.AudioBase64
		}
		if encoded == "" {
			return
		}
		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			p.logger.Warn("bad audio payload", "err", err)
			return
		}
		p.mu.RLock()
		fn := p.onAudio
		p.mu.RUnlock()
		if fn != nil {
			fn(audio)
		}

	case "audio_done", "agent_response_done":
		p.mu.RLock()
		fn := p.onAudioDone
		p.mu.RUnlock()
		if fn != nil {
			fn()
		}

	case "user_transcript":
		text := msg.Text
		if msg.UserTranscriptionEvent != nil {
			text = msg.UserTranscriptionEvent.UserTranscript
		}
		p.emitTranscript("user", text)

	case "agent_response":
		text := msg.Text
		if msg.AgentResponseEvent != nil {
			text = msg.AgentResponseEvent.AgentResponse
		}
		p.emitTranscript("agent", text)

	case "client_tool_call", "tool_call":
		id, name, args := msg.ToolCallID, msg.ToolName, msg.Parameters
		if msg.ClientToolCall != nil {
			id, name, args = msg.ClientToolCall.ToolCallID, msg.ClientToolCall.ToolName, msg.ClientToolCall.Parameters
		}
		p.mu.RLock()
		fn := p.onToolCall
		p.mu.RUnlock()
		if fn != nil {
			fn(id, name, args)
		}

	case "interruption":
		p.mu.RLock()
		fn := p.onInterruption
		p.mu.RUnlock()
		if fn != nil {
			fn()
		}

	case "error":
		p.emitError(fmt.Errorf("voice: agent error: %s", msg.Message))

	case "ping":
		eventID := 0
		if msg.PingEvent != nil {
			eventID = msg.PingEvent.EventID
		}
		p.sendPong(eventID)

	default:
		p.logger.Debug("unhandled agent message", "type", msg.Type)
	}
}

func (p *AgentProvider) sendPong(eventID int) {
	conn, ok := p.liveConn()
	if !ok {
		return
	}
	_ = p.writeJSON(conn, map[string]any{"type": "pong", "event_id": eventID})
}

func (p *AgentProvider) emitTranscript(role, text string) {
	p.mu.RLock()
	fn := p.onTranscript
	p.mu.RUnlock()
	if fn != nil && text != "" {
		fn(role, text)
	}
}

func (p *AgentProvider) emitError(err error) {
	p.mu.RLock()
	fn := p.onError
	p.mu.RUnlock()
	p.logger.Error("agent session error", "err", err)
	if fn != nil {
		fn(err)
	}
}

func (p *AgentProvider) OnAudio(fn func([]byte)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onAudio = fn
}

func (p *AgentProvider) OnAudioDone(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onAudioDone = fn
}

func (p *AgentProvider) OnTranscript(fn func(role, text string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTranscript = fn
}

func (p *AgentProvider) OnToolCall(fn func(id, name string, args map[string]any)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onToolCall = fn
}

func (p *AgentProvider) OnInterruption(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onInterruption = fn
}

func (p *AgentProvider) OnError(fn func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

func (p *AgentProvider) OnDisconnect(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDisconnect = fn
}

// Wire events. The agent platform mixes flat fields and nested event
// structs depending on message type.

type agentEvent struct {
	Type       string         `json:"type"`
	Audio      string         `json:"audio,omitempty"`
	Text       string         `json:"text,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Message    string         `json:"message,omitempty"`

	AudioEvent             *audioEvent             `json:"audio_event,omitempty"`
	PingEvent              *pingEvent              `json:"ping_event,omitempty"`
	ClientToolCall         *clientToolCallEvent    `json:"client_tool_call,omitempty"`
	UserTranscriptionEvent *userTranscriptionEvent `json:"user_transcription_event,omitempty"`
	AgentResponseEvent     *agentResponseEvent     `json:"agent_response_event,omitempty"`
}

type audioEvent struct {
	EventID     int    `json:"event_id"`
	AudioBase64 string `json:"audio_base_64"`
}

type pingEvent struct {
	EventID int `json:"event_id"`
}

type clientToolCallEvent struct {
	ToolName   string         `json:"tool_name"`
	ToolCallID string         `json:"tool_call_id"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type userTranscriptionEvent struct {
	UserTranscript string `json:"user_transcript"`
}

type agentResponseEvent struct {
	AgentResponse string `json:"agent_response"`
}

var _ Provider = (*AgentProvider)(nil)
