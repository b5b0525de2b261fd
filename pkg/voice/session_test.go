package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type mockProvider struct {
	mu        sync.Mutex
	connected bool
	dialErr   error
	audio     [][]byte
	results   []toolResult

	onTranscript func(role, text string)
	onAudioDone  func()
	onToolCall   func(id, name string, args map[string]any)
	onDisconnect func()
}

type toolResult struct {
	callID  string
	result  string
	isError bool
}

func (m *mockProvider) Connect(ctx context.Context, signedURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dialErr != nil {
		return m.dialErr
	}
	m.connected = true
	return nil
}

func (m *mockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *mockProvider) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockProvider) SendAudio(audio []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return ErrNotConnected
	}
	m.audio = append(m.audio, audio)
	return nil
}

func (m *mockProvider) SubmitToolResult(callID, result string, isError bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, toolResult{callID, result, isError})
	return nil
}

func (m *mockProvider) OnAudio(func([]byte))     {}
func (m *mockProvider) OnInterruption(func())    {}
func (m *mockProvider) OnError(func(error))      {}
func (m *mockProvider) OnAudioDone(fn func())    { m.onAudioDone = fn }
func (m *mockProvider) OnDisconnect(fn func())   { m.onDisconnect = fn }
func (m *mockProvider) OnTranscript(fn func(role, text string)) {
	m.onTranscript = fn
}
func (m *mockProvider) OnToolCall(fn func(id, name string, args map[string]any)) {
	m.onToolCall = fn
}

func (m *mockProvider) sentAudio() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.audio)
}

type fakeMic struct {
	mu      sync.Mutex
	tracks  int
	failure error
	frames  chan []byte
}

func (f *fakeMic) Start(ctx context.Context) (<-chan []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return nil, f.failure
	}
	f.tracks = 1
	f.frames = make(chan []byte, 8)
	return f.frames, nil
}

func (f *fakeMic) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tracks == 0 {
		return
	}
	f.tracks = 0
	close(f.frames)
}

func (f *fakeMic) ActiveTracks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracks
}

type stubTools struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *stubTools) Call(name string, args map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	if s.err != nil {
		return "", s.err
	}
	return "done: " + name, nil
}

func okCredential(ctx context.Context) (string, error) {
	return "wss://example.test/session?token=abc", nil
}

func newTestController(p *mockProvider, mic *fakeMic) *Controller {
	return NewController(p, mic, okCredential, &stubTools{})
}

func TestStartTransitionsToConnected(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	if c.State() != StateDisconnected {
		t.Fatalf("initial state = %s", c.State())
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.State() != StateConnected {
		t.Fatalf("state = %s, want connected", c.State())
	}
	if c.Mode() != ModeListening {
		t.Fatalf("mode = %s, want listening", c.Mode())
	}
	if mic.ActiveTracks() != 1 {
		t.Fatalf("mic tracks = %d, want 1", mic.ActiveTracks())
	}
}

func TestStartIsIdempotentWhileConnected(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if mic.ActiveTracks() != 1 {
		t.Fatalf("mic tracks = %d after double start", mic.ActiveTracks())
	}
}

func TestMicrophoneFailureAbortsStart(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{failure: errors.New("permission denied")}
	c := newTestController(p, mic)

	err := c.Start(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if c.State() != StateDisconnected {
		t.Fatalf("state = %s, want disconnected", c.State())
	}
	if p.Connected() {
		t.Fatal("provider connected despite mic failure")
	}
}

func TestCredentialFailureReleasesMic(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := NewController(p, mic, func(ctx context.Context) (string, error) {
		return "", errors.New("upstream 500")
	}, &stubTools{})

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if mic.ActiveTracks() != 0 {
		t.Fatalf("mic tracks = %d, want 0 after failed start", mic.ActiveTracks())
	}
	if c.State() != StateDisconnected {
		t.Fatalf("state = %s", c.State())
	}
}

func TestEndStopsAllTracks(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.End()

	if mic.ActiveTracks() != 0 {
		t.Fatalf("mic tracks = %d, want 0 after End", mic.ActiveTracks())
	}
	if p.Connected() {
		t.Fatal("provider still connected after End")
	}
	if c.State() != StateDisconnected {
		t.Fatalf("state = %s", c.State())
	}

	// End again is a no-op.
	c.End()
}

func TestTranscriptRetainedAfterEndClearedByRestart(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.onTranscript("user", "hello")
	p.onTranscript("agent", "hi, how can I help?")

	c.End()
	got := c.Transcript()
	if len(got) != 2 || got[0].Role != "user" || got[1].Role != "agent" {
		t.Fatalf("transcript after End = %+v", got)
	}

	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if len(c.Transcript()) != 0 {
		t.Fatal("transcript not cleared by Restart")
	}
	if c.State() != StateConnected {
		t.Fatalf("state after Restart = %s", c.State())
	}
}

func TestAgentResponseTogglesSpeaking(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.onTranscript("agent", "let me check")
	if c.Mode() != ModeSpeaking {
		t.Fatalf("mode = %s, want speaking", c.Mode())
	}
	p.onAudioDone()
	if c.Mode() != ModeListening {
		t.Fatalf("mode = %s, want listening", c.Mode())
	}
}

func TestTranscriptForwardedToListener(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	type entry struct{ role, text string }
	var relayed []entry
	c.OnTranscript = func(role, text string) {
		relayed = append(relayed, entry{role, text})
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.onTranscript("user", "hello")
	p.onTranscript("agent", "hi, how can I help?")

	if len(relayed) != 2 {
		t.Fatalf("relayed %d entries, want 2", len(relayed))
	}
	if relayed[0] != (entry{"user", "hello"}) || relayed[1] != (entry{"agent", "hi, how can I help?"}) {
		t.Fatalf("relayed = %+v, want entries in received order", relayed)
	}
}

func TestToolCallsAnsweredThroughRegistry(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	tools := &stubTools{}
	c := NewController(p, mic, okCredential, tools)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.onToolCall("call-1", "addToCart", map[string]any{"bookId": "1"})

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) != 1 {
		t.Fatalf("results = %d, want 1", len(p.results))
	}
	r := p.results[0]
	if r.callID != "call-1" || r.isError || r.result != "done: addToCart" {
		t.Fatalf("result = %+v", r)
	}
}

func TestFailedToolCallReportedAsError(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	tools := &stubTools{err: errors.New("no such book")}
	c := NewController(p, mic, okCredential, tools)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.onToolCall("call-2", "addToCart", nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) != 1 || !p.results[0].isError {
		t.Fatalf("results = %+v, want one error result", p.results)
	}
}

func TestMuteStopsForwardingWithoutTeardown(t *testing.T) {
	p := &mockProvider{}
	mic := &fakeMic{}
	c := newTestController(p, mic)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mic.frames <- []byte{1}
	waitFor(t, func() bool { return p.sentAudio() == 1 })

	c.SetMuted(true)
	mic.frames <- []byte{2}
	mic.frames <- []byte{3}
	waitFor(t, func() bool { return len(mic.frames) == 0 })
	time.Sleep(20 * time.Millisecond)
	if p.sentAudio() != 1 {
		t.Fatalf("sent = %d while muted, want 1", p.sentAudio())
	}

	c.SetMuted(false)
	mic.frames <- []byte{4}
	waitFor(t, func() bool { return p.sentAudio() == 2 })

	if c.State() != StateConnected {
		t.Fatalf("state = %s, mute must not tear down", c.State())
	}
}

func TestVolumeClamped(t *testing.T) {
	c := newTestController(&mockProvider{}, &fakeMic{})
	c.SetVolume(1.7)
	if v := c.Volume(); v != 1.0 {
		t.Fatalf("volume = %v, want 1.0", v)
	}
	c.SetVolume(-0.2)
	if v := c.Volume(); v != 0 {
		t.Fatalf("volume = %v, want 0", v)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
