package voice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AgentMode is the connected sub-state: the agent is either talking or
// waiting for the user.
type AgentMode string

const (
	ModeListening AgentMode = "listening"
	ModeSpeaking  AgentMode = "speaking"
)

// TranscriptEntry is one finalized utterance, user or agent, in arrival
// order.
type TranscriptEntry struct {
	Role string    `json:"role"` // "user" or "agent"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ToolCaller answers agent tool calls. *assistant.Registry satisfies it.
type ToolCaller interface {
	Call(name string, args map[string]any) (string, error)
}

// CredentialFunc fetches the signed connection URL for a session. A
// failure aborts the connection attempt.
type CredentialFunc func(ctx context.Context) (string, error)

// Controller drives one voice session through its lifecycle:
// disconnected → connecting → connected → disconnected. All methods are
// safe for concurrent use.
type Controller struct {
	provider   Provider
	mic        AudioSource
	credential CredentialFunc
	tools      ToolCaller
	logger     *slog.Logger

	// OnAgentAudio receives agent audio chunks for playback. Optional;
	// set before Start.
	OnAgentAudio func(audio []byte)

	// OnTranscript receives each finalized transcript entry as it is
	// appended, in order. Optional; set before Start.
	OnTranscript func(role, text string)

	mu         sync.Mutex
	state      ConnectionState
	mode       AgentMode
	muted      bool
	volume     float64
	transcript []TranscriptEntry
	stopPump   context.CancelFunc
}

func NewController(provider Provider, mic AudioSource, credential CredentialFunc, tools ToolCaller) *Controller {
	return &Controller{
		provider:   provider,
		mic:        mic,
		credential: credential,
		tools:      tools,
		logger:     slog.Default().With("component", "voice.session"),
		state:      StateDisconnected,
		mode:       ModeListening,
		volume:     1.0,
	}
}

// Start brings the session up. Calling Start while connecting or
// connected is a no-op. On any failure the controller returns to
// disconnected with the microphone released, and the error describes
// which step failed.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.mu.Unlock()

	if c.mic == nil {
		c.toDisconnected()
		return ErrNoAudioSource
	}
	frames, err := c.mic.Start(ctx)
	if err != nil {
		c.toDisconnected()
		return fmt.Errorf("voice: microphone unavailable: %w", err)
	}

	signedURL, err := c.credential(ctx)
	if err != nil {
		c.mic.Stop()
		c.toDisconnected()
		return fmt.Errorf("voice: signed url: %w", err)
	}

	c.wireProvider()
	if err := c.provider.Connect(ctx, signedURL); err != nil {
		c.mic.Stop()
		c.toDisconnected()
		return fmt.Errorf("voice: connect: %w", err)
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.state = StateConnected
	c.mode = ModeListening
	c.stopPump = cancel
	c.mu.Unlock()

	go c.pumpAudio(pumpCtx, frames)

	c.logger.Info("voice session started")
	return nil
}

// End tears the session down: every microphone track is stopped and the
// provider connection closed. The transcript is retained. End on a
// disconnected session is a no-op.
func (c *Controller) End() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.mode = ModeListening
	if c.stopPump != nil {
		c.stopPump()
		c.stopPump = nil
	}
	c.mu.Unlock()

	c.mic.Stop()
	if err := c.provider.Close(); err != nil {
		c.logger.Warn("provider close failed", "err", err)
	}
	c.logger.Info("voice session ended")
}

// Restart clears the transcript and starts a fresh session.
func (c *Controller) Restart(ctx context.Context) error {
	c.End()
	c.mu.Lock()
	c.transcript = nil
	c.mu.Unlock()
	return c.Start(ctx)
}

func (c *Controller) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Mode() AgentMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMuted toggles the local mute flag. Muting stops forwarding
// microphone audio; it does not tear down the session.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// SetVolume sets the local playback volume in [0, 1].
func (c *Controller) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
}

func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// Transcript returns a copy of the conversation so far. Entries survive
// disconnects until Restart.
func (c *Controller) Transcript() []TranscriptEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TranscriptEntry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) toDisconnected() {
	c.mu.Lock()
	c.state = StateDisconnected
	c.mu.Unlock()
}

func (c *Controller) wireProvider() {
	c.provider.OnTranscript(func(role, text string) {
		c.mu.Lock()
		c.transcript = append(c.transcript, TranscriptEntry{Role: role, Text: text, At: time.Now()})
		if role == "agent" {
			c.mode = ModeSpeaking
		}
		fn := c.OnTranscript
		c.mu.Unlock()
		if fn != nil {
			fn(role, text)
		}
	})
	c.provider.OnAudio(func(audio []byte) {
		c.mu.Lock()
		c.mode = ModeSpeaking
		fn := c.OnAgentAudio
		c.mu.Unlock()
		if fn != nil {
			fn(audio)
		}
	})
	c.provider.OnAudioDone(func() {
		c.mu.Lock()
		c.mode = ModeListening
		c.mu.Unlock()
	})
	c.provider.OnInterruption(func() {
		c.mu.Lock()
		c.mode = ModeListening
		c.mu.Unlock()
	})
	c.provider.OnToolCall(func(id, name string, args map[string]any) {
		result, err := c.tools.Call(name, args)
		isError := err != nil
		if isError {
			result = err.Error()
		}
		if err := c.provider.SubmitToolResult(id, result, isError); err != nil {
			c.logger.Warn("tool result submit failed", "tool", name, "err", err)
		}
	})
	c.provider.OnError(func(err error) {
		c.logger.Error("voice session error", "err", err)
	})
	c.provider.OnDisconnect(func() {
		// Upstream dropped us; release the mic and settle state.
		c.mu.Lock()
		if c.state == StateDisconnected {
			c.mu.Unlock()
			return
		}
		c.state = StateDisconnected
		if c.stopPump != nil {
			c.stopPump()
			c.stopPump = nil
		}
		c.mu.Unlock()
		c.mic.Stop()
		c.logger.Warn("voice session dropped by upstream")
	})
}

// pumpAudio forwards microphone frames until the session ends. Muted
// frames are dropped locally.
func (c *Controller) pumpAudio(ctx context.Context, frames <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if c.Muted() {
				continue
			}
			if err := c.provider.SendAudio(frame); err != nil {
				if err != ErrNotConnected {
					c.logger.Warn("audio send failed", "err", err)
				}
				return
			}
		}
	}
}
