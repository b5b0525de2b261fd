// Package voice runs the hands-free side of the assistant: a
// conversational agent session over a realtime provider connection,
// driven by the session controller and answering tool calls through the
// assistant registry.
package voice

import "context"

// ConnectionState is the provider connection lifecycle.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// Provider is a realtime conversational agent backend. Implementations
// must be safe for concurrent use; callbacks are invoked from the
// provider's read loop and must not block.
type Provider interface {
	// Connect opens the session at the given signed URL. The URL embeds
	// the short-lived credential minted by the signed-url endpoint.
	Connect(ctx context.Context, signedURL string) error
	Close() error
	Connected() bool

	// SendAudio forwards one chunk of microphone audio upstream.
	SendAudio(audio []byte) error

	// SubmitToolResult answers a tool call surfaced via OnToolCall.
	SubmitToolResult(callID, result string, isError bool) error

	OnAudio(fn func(audio []byte))
	OnAudioDone(fn func())
	OnTranscript(fn func(role, text string))
	OnToolCall(fn func(id, name string, args map[string]any))
	OnInterruption(fn func())
	OnError(fn func(err error))
	OnDisconnect(fn func())
}
