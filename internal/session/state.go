package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/looplab/fsm"
)

// RegistrationStatus is the signaling registration state of the session.
type RegistrationStatus string

const (
	RegistrationDisconnected RegistrationStatus = "disconnected"
	RegistrationConnecting   RegistrationStatus = "connecting"
	RegistrationRegistered   RegistrationStatus = "registered"
	RegistrationFailed       RegistrationStatus = "failed"
)

// CallStatus is the state of the (single) call leg. CallEnded behaves like CallIdle
// for every precondition; it records that the last call ended.
type CallStatus string

const (
	CallIdle     CallStatus = "idle"
	CallCalling  CallStatus = "calling"
	CallRinging  CallStatus = "ringing"
	CallIncoming CallStatus = "incoming"
	CallInCall   CallStatus = "in_call"
	CallEnded    CallStatus = "terminated"
)

// Active reports whether a call session exists on the client side.
func (s CallStatus) Active() bool {
	return s == CallCalling || s == CallRinging || s == CallInCall
}

// Registration events.
const (
	evConnect       = "connect"
	evLoginOK       = "login_ok"
	evLoginFailed   = "login_failed"
	evInitFailed    = "init_failed"
	evLoggedOut     = "logged_out"
	evTransportGone = "transport_unsupported"
)

// Call events.
const (
	evPlace            = "place"
	evRemoteRinging    = "remote_ringing"
	evAnswered         = "answered"
	evEnd              = "end"
	evIncoming         = "incoming"
	evIncomingCanceled = "incoming_canceled"
	evReset            = "reset"
)

func rs(states ...RegistrationStatus) []string {
	out := make([]string, len(states))
	for i, st := range states {
		out[i] = string(st)
	}
	return out
}

func cs(states ...CallStatus) []string {
	out := make([]string, len(states))
	for i, st := range states {
		out[i] = string(st)
	}
	return out
}

func newRegistrationFSM(log *slog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		string(RegistrationDisconnected),
		fsm.Events{
			{Name: evConnect, Src: rs(RegistrationDisconnected, RegistrationFailed), Dst: string(RegistrationConnecting)},
			{Name: evLoginOK, Src: rs(RegistrationConnecting), Dst: string(RegistrationRegistered)},
			{Name: evLoginFailed, Src: rs(RegistrationConnecting), Dst: string(RegistrationFailed)},
			{Name: evInitFailed, Src: rs(RegistrationConnecting), Dst: string(RegistrationFailed)},
			{Name: evLoggedOut, Src: rs(RegistrationConnecting, RegistrationRegistered), Dst: string(RegistrationDisconnected)},
			{Name: evTransportGone, Src: rs(RegistrationDisconnected, RegistrationConnecting, RegistrationRegistered, RegistrationFailed), Dst: string(RegistrationDisconnected)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("registration state", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}

func newCallFSM(log *slog.Logger) *fsm.FSM {
	anyCall := cs(CallIdle, CallCalling, CallRinging, CallIncoming, CallInCall, CallEnded)
	return fsm.NewFSM(
		string(CallIdle),
		fsm.Events{
			{Name: evPlace, Src: cs(CallIdle, CallEnded), Dst: string(CallCalling)},
			{Name: evRemoteRinging, Src: cs(CallCalling), Dst: string(CallRinging)},
			{Name: evAnswered, Src: cs(CallCalling, CallRinging, CallIncoming), Dst: string(CallInCall)},
			{Name: evEnd, Src: cs(CallCalling, CallRinging, CallIncoming, CallInCall), Dst: string(CallEnded)},
			{Name: evIncoming, Src: cs(CallIdle, CallEnded), Dst: string(CallIncoming)},
			{Name: evIncomingCanceled, Src: cs(CallIncoming), Dst: string(CallEnded)},
			{Name: evReset, Src: anyCall, Dst: string(CallIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("call state", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}

// fire applies event if the current state allows it. Self-transitions count as
// applied. It returns false when the precondition does not hold.
func fire(f *fsm.FSM, event string) bool {
	if !f.Can(event) {
		return false
	}
	err := f.Event(context.Background(), event)
	if err == nil {
		return true
	}
	var noTransition fsm.NoTransitionError
	return errors.As(err, &noTransition)
}
