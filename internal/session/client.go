package session

import (
	"github.com/pion/webrtc/v4"
)

// ClientOptions is the configuration bag handed to the vendor client on construction.
type ClientOptions struct {
	Debug             string
	PermOnClick       bool
	EnableTracking    bool
	CloseProtection   bool
	MaxAverageBitrate int
}

// DefaultClientOptions is the fixed configuration used by Connect: verbose SDK
// logging, telemetry on, close protection off and a 48 kbit/s audio ceiling.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Debug:             "ALL",
		PermOnClick:       true,
		EnableTracking:    true,
		CloseProtection:   false,
		MaxAverageBitrate: 48000,
	}
}

// ClientFactory constructs a call-control client. A construction error is reported
// to the user and leaves the controller idle.
type ClientFactory func(ClientOptions) (Client, error)

// Client is the vendor call-control SDK. Signaling and media live behind it.
//
// Subscribe is called once, before Login. Implementations may deliver notifications
// from any goroutine, including synchronously from inside a command, but must not
// deliver from inside Subscribe itself.
type Client interface {
	Subscribe(handler func(Notification))

	Login(username, password string) error
	Logout() error

	Call(destination string, extraHeaders map[string]string) error
	Answer() error
	Reject() error
	Hangup() error

	Mute() error
	Unmute() error
	SendDTMF(digit string) error

	// RemoteView returns the negotiated remote stream, or nil when the SDK has none.
	RemoteView() *MediaStream
	// Receivers lists the inbound receivers of the underlying peer connection.
	Receivers() []Receiver
}

// Track is an inbound media track.
type Track struct {
	ID   string
	Kind webrtc.RTPCodecType
}

// MediaStream groups tracks the way the remote audio element expects them.
type MediaStream struct {
	ID     string
	Tracks []Track
}

// HasAudio reports whether the stream carries at least one audio track.
func (s *MediaStream) HasAudio() bool {
	if s == nil {
		return false
	}
	for _, t := range s.Tracks {
		if t.Kind == webrtc.RTPCodecTypeAudio {
			return true
		}
	}
	return false
}

// Receiver is one inbound RTP receiver. Track returns nil until media arrives.
type Receiver interface {
	Track() *Track
}

// AudioSink plays a remote stream, e.g. a backup audio element.
type AudioSink interface {
	Play(stream *MediaStream) error
}
