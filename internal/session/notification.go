package session

// Notification is a lifecycle event delivered by the Client. The set is closed:
// only the types in this file implement it.
type Notification interface {
	Name() string
	notification()
}

type TransportUnsupported struct{}

type LoginSucceeded struct{}

type LoginFailed struct {
	Reason string
}

type LoggedOut struct{}

type RemoteRinging struct {
	CallID string
}

type CallAnswered struct {
	CallID string
}

type CallTerminated struct {
	CallID string
	Reason string
}

type CallFailed struct {
	CallID string
	Reason string
}

type IncomingCall struct {
	CallerName   string
	ExtraHeaders map[string]string
}

type IncomingCallCancelled struct{}

type MediaPermission struct {
	Granted bool
}

// ConnectionChange carries the SDK's raw connection event; it is only logged.
type ConnectionChange struct {
	Event map[string]any
}

func (TransportUnsupported) Name() string  { return "transport-unsupported" }
func (LoginSucceeded) Name() string        { return "login-succeeded" }
func (LoginFailed) Name() string           { return "login-failed" }
func (LoggedOut) Name() string             { return "logged-out" }
func (RemoteRinging) Name() string         { return "remote-ringing" }
func (CallAnswered) Name() string          { return "call-answered" }
func (CallTerminated) Name() string        { return "call-terminated" }
func (CallFailed) Name() string            { return "call-failed" }
func (IncomingCall) Name() string          { return "incoming-call" }
func (IncomingCallCancelled) Name() string { return "incoming-call-cancelled" }
func (MediaPermission) Name() string       { return "media-permission" }
func (ConnectionChange) Name() string      { return "connection-change" }

func (TransportUnsupported) notification()  {}
func (LoginSucceeded) notification()        {}
func (LoginFailed) notification()           {}
func (LoggedOut) notification()             {}
func (RemoteRinging) notification()         {}
func (CallAnswered) notification()          {}
func (CallTerminated) notification()        {}
func (CallFailed) notification()            {}
func (IncomingCall) notification()          {}
func (IncomingCallCancelled) notification() {}
func (MediaPermission) notification()       {}
func (ConnectionChange) notification()      {}
