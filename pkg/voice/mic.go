package voice

import (
	"context"
	"sync"
)

// AudioSource is a microphone-like capture device. Start acquires the
// device and returns a frame channel that stays open until Stop; Stop
// releases every underlying track. Acquisition failure (no device,
// permission denied) is reported from Start.
type AudioSource interface {
	Start(ctx context.Context) (<-chan []byte, error)
	Stop()
	// ActiveTracks reports how many capture tracks are currently live.
	ActiveTracks() int
}

// ChannelAudioSource adapts an externally fed frame channel — the
// websocket bridge pushes browser microphone frames into it — to the
// AudioSource interface.
type ChannelAudioSource struct {
	mu     sync.Mutex
	frames chan []byte
	active bool
}

func NewChannelAudioSource() *ChannelAudioSource {
	return &ChannelAudioSource{}
}

func (s *ChannelAudioSource) Start(ctx context.Context) (<-chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return s.frames, nil
	}
	s.frames = make(chan []byte, 64)
	s.active = true
	return s.frames, nil
}

func (s *ChannelAudioSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.frames)
	s.frames = nil
}

func (s *ChannelAudioSource) ActiveTracks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return 1
	}
	return 0
}

// Push feeds one captured frame. Frames arriving while the source is
// stopped or the buffer is full are dropped; audio is lossy by nature.
func (s *ChannelAudioSource) Push(frame []byte) {
	s.mu.Lock()
	frames := s.frames
	active := s.active
	s.mu.Unlock()
	if !active {
		return
	}
	select {
	case frames <- frame:
	default:
	}
}
