package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu        sync.Mutex
	handler   func(Notification)
	commands  []string
	headers   map[string]string
	loginErr  error
	callErr   error
	remote    *MediaStream
	receivers []Receiver
	closed    bool
}

func (f *fakeClient) record(cmd string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
}

func (f *fakeClient) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeClient) emit(n Notification) { f.handler(n) }

func (f *fakeClient) Subscribe(h func(Notification)) { f.handler = h }

func (f *fakeClient) Login(u, p string) error {
	f.record(fmt.Sprintf("login %s %s", u, p))
	return f.loginErr
}

func (f *fakeClient) Logout() error { f.record("logout"); return nil }

func (f *fakeClient) Call(dest string, headers map[string]string) error {
	f.record("call " + dest)
	f.headers = headers
	return f.callErr
}

func (f *fakeClient) Answer() error               { f.record("answer"); return nil }
func (f *fakeClient) Reject() error               { f.record("reject"); return nil }
func (f *fakeClient) Hangup() error               { f.record("hangup"); return nil }
func (f *fakeClient) Mute() error                 { f.record("mute"); return nil }
func (f *fakeClient) Unmute() error               { f.record("unmute"); return nil }
func (f *fakeClient) SendDTMF(digit string) error { f.record("dtmf " + digit); return nil }
func (f *fakeClient) RemoteView() *MediaStream    { return f.remote }
func (f *fakeClient) Receivers() []Receiver       { return f.receivers }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type fakeReceiver struct{ track *Track }

func (r fakeReceiver) Track() *Track { return r.track }

type fakeSink struct {
	played []*MediaStream
	err    error
}

func (s *fakeSink) Play(stream *MediaStream) error {
	s.played = append(s.played, stream)
	return s.err
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (t *fakeTimer) fire() {
	if t.stopped || t.fired {
		return
	}
	t.fired = true
	t.f()
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last(t *testing.T) *fakeTimer {
	t.Helper()
	require.NotEmpty(t, s.timers, "no deferred task scheduled")
	return s.timers[len(s.timers)-1]
}

type logLine struct {
	level LogLevel
	msg   string
}

// recordingView keeps the last value of every control.
type recordingView struct {
	logs        []logLine
	cleared     int
	status      string
	class       StatusClass
	loginBusy   bool
	loggedIn    bool
	dialing     bool
	inCall      bool
	incoming    bool
	caller      string
	muted       bool
	destination string
}

func (v *recordingView) Log(level LogLevel, msg string) {
	v.logs = append(v.logs, logLine{level: level, msg: msg})
}

func (v *recordingView) ClearLog() {
	v.logs = nil
	v.cleared++
}

func (v *recordingView) SetStatus(text string, class StatusClass) {
	v.status, v.class = text, class
}

func (v *recordingView) SetLoginBusy(busy bool)     { v.loginBusy = busy }
func (v *recordingView) ShowLoggedIn(in bool)       { v.loggedIn = in }
func (v *recordingView) ShowDialing()               { v.dialing = true }
func (v *recordingView) ShowInCall()                { v.dialing, v.inCall = false, true }
func (v *recordingView) SetMuted(muted bool)        { v.muted = muted }
func (v *recordingView) AppendDestination(d string) { v.destination += d }

func (v *recordingView) HideCall() {
	v.dialing, v.inCall, v.muted = false, false, false
}

func (v *recordingView) ShowIncoming(name string) {
	v.incoming, v.caller = true, name
}

func (v *recordingView) HideIncoming() {
	v.incoming, v.caller = false, ""
}

func (v *recordingView) lastLog() logLine {
	if len(v.logs) == 0 {
		return logLine{}
	}
	return v.logs[len(v.logs)-1]
}

func (v *recordingView) hasLog(level LogLevel, msg string) bool {
	for _, l := range v.logs {
		if l.level == level && l.msg == msg {
			return true
		}
	}
	return false
}

type harness struct {
	ctrl    *Controller
	view    *recordingView
	sched   *fakeScheduler
	sink    *fakeSink
	client  *fakeClient
	built   int
	gotOpts ClientOptions
	newErr  error
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		view:   &recordingView{},
		sched:  &fakeScheduler{},
		sink:   &fakeSink{},
		client: &fakeClient{},
	}
	factory := func(o ClientOptions) (Client, error) {
		h.built++
		h.gotOpts = o
		if h.newErr != nil {
			return nil, h.newErr
		}
		return h.client, nil
	}
	base := []Option{WithScheduler(h.sched), WithAudioSink(h.sink)}
	h.ctrl = New(factory, h.view, append(base, opts...)...)
	return h
}

// login connects and confirms registration.
func (h *harness) login(t *testing.T) {
	t.Helper()
	h.ctrl.Connect("alice", "secret")
	h.client.emit(LoginSucceeded{})
	require.Equal(t, RegistrationRegistered, h.ctrl.State().Registration)
}

// answered drives an outbound call to InCall.
func (h *harness) answered(t *testing.T) {
	t.Helper()
	h.login(t)
	h.ctrl.PlaceCall("+15550100")
	h.client.emit(CallAnswered{CallID: "c-1"})
	require.Equal(t, CallInCall, h.ctrl.State().Call)
}
