package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
)

// DefaultAttachDelay is how long after answer the remote audio lookup runs.
// The SDK's remote-stream signal is unreliable; waiting lets the tracks settle.
const DefaultAttachDelay = 1500 * time.Millisecond

// Timer is a scheduled function that can be stopped before it runs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// attachTask is the pending remote-audio attachment of the current call.
type attachTask struct {
	id    uint64
	timer Timer
}

// findRemoteStream prefers the SDK's remote view and falls back to building a
// stream from the first inbound audio track. fromReceivers reports the fallback.
func findRemoteStream(c Client) (stream *MediaStream, fromReceivers bool) {
	if c == nil {
		return nil, false
	}
	if v := c.RemoteView(); v != nil {
		return v, false
	}
	for _, r := range c.Receivers() {
		if r == nil {
			continue
		}
		t := r.Track()
		if t == nil || t.Kind != webrtc.RTPCodecTypeAudio {
			continue
		}
		return &MediaStream{ID: uuid.NewString(), Tracks: []Track{*t}}, true
	}
	return nil, false
}
