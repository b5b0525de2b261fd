package voice

import "errors"

var (
	ErrNotConnected     = errors.New("voice: not connected")
	ErrAlreadyConnected = errors.New("voice: already connected")
	ErrNoAudioSource    = errors.New("voice: no audio source")
)
