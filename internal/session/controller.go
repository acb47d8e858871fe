package session

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vobiz-console/pkg/logger"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Controller turns user intents into client commands and client notifications into
// state transitions and UI updates.
//
// It owns at most one Client at a time: created on Connect, released on logout,
// login failure or transport loss. A second Connect while a client is live is
// rejected. Notifications are handled one at a time under the controller lock;
// client commands are issued outside it, so a client may deliver notifications
// synchronously from a command.
//
// Failures never reach the caller. They are written to the View's log and the UI
// is returned to a safe state.
type Controller struct {
	mu sync.Mutex

	newClient   ClientFactory
	view        View
	log         *slog.Logger
	sched       Scheduler
	sink        AudioSink
	clientOpts  ClientOptions
	attachDelay time.Duration

	client    Client
	gen       uint64
	sessionID string
	retired   []Client

	reg   *fsm.FSM
	call  *fsm.FSM
	muted bool

	attach    *attachTask
	attachSeq uint64
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithScheduler replaces the timer source of the deferred audio attachment.
// AfterFunc must not run f synchronously.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

func WithAudioSink(s AudioSink) Option {
	return func(c *Controller) { c.sink = s }
}

func WithClientOptions(o ClientOptions) Option {
	return func(c *Controller) { c.clientOpts = o }
}

func WithAttachDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.attachDelay = d
		}
	}
}

// New returns an idle controller. view is required.
func New(newClient ClientFactory, view View, opts ...Option) *Controller {
	c := &Controller{
		newClient:   newClient,
		view:        view,
		log:         logger.Discard(),
		sched:       realScheduler{},
		clientOpts:  DefaultClientOptions(),
		attachDelay: DefaultAttachDelay,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "session")
	c.reg = newRegistrationFSM(c.log)
	c.call = newCallFSM(c.log)
	return c
}

// State is a point-in-time copy of the session state.
type State struct {
	SessionID    string
	Registration RegistrationStatus
	Call         CallStatus
	Muted        bool
	Connected    bool
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.unlock()
	return State{
		SessionID:    c.sessionID,
		Registration: RegistrationStatus(c.reg.Current()),
		Call:         CallStatus(c.call.Current()),
		Muted:        c.muted,
		Connected:    c.client != nil,
	}
}

// unlock releases the lock and then closes clients retired while it was held.
func (c *Controller) unlock() {
	retired := c.retired
	c.retired = nil
	c.mu.Unlock()

	for _, cl := range retired {
		closer, ok := cl.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			c.log.Warn("client close failed", "err", err)
		}
	}
}

// Connect constructs a client, subscribes to its notifications and logs in.
func (c *Controller) Connect(username, password string) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	c.mu.Lock()
	if username == "" || password == "" {
		c.view.Log(LogError, "Please enter both username and password")
		c.unlock()
		return
	}
	if c.client != nil {
		c.view.Log(LogError, "Already connected; log out before connecting again")
		c.unlock()
		return
	}

	fire(c.reg, evConnect)
	c.view.SetLoginBusy(true)
	c.view.SetStatus("Connecting...", StatusConnecting)
	c.view.Log(LogEvent, fmt.Sprintf("Connecting as %s...", username))

	if c.newClient == nil {
		c.failInit(fmt.Errorf("no client factory configured"))
		c.unlock()
		return
	}
	client, err := c.newClient(c.clientOpts)
	if err != nil {
		c.failInit(err)
		c.unlock()
		return
	}
	if client == nil {
		c.failInit(fmt.Errorf("client factory returned no client"))
		c.unlock()
		return
	}

	c.gen++
	gen := c.gen
	c.client = client
	c.sessionID = uuid.NewString()
	c.log.Info("client created", "session_id", c.sessionID)
	c.unlock()

	client.Subscribe(func(n Notification) { c.dispatch(gen, n) })

	if err := client.Login(username, password); err != nil {
		c.mu.Lock()
		defer c.unlock()
		if gen != c.gen {
			return
		}
		c.failInit(fmt.Errorf("login: %w", err))
		c.teardown()
	}
}

// Disconnect logs out. A registered client is released when the logout is
// confirmed; one that never registered is released right away, since it may
// never confirm.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	client, gen := c.client, c.gen
	if client == nil {
		c.unlock()
		return
	}
	registered := c.reg.Is(string(RegistrationRegistered))
	c.view.Log(LogInfo, "Logging out...")
	c.unlock()

	c.report("logout", client.Logout())
	if registered {
		return
	}

	c.mu.Lock()
	defer c.unlock()
	if gen != c.gen {
		return
	}
	c.loggedOut()
}

// PlaceCall dials destination, a phone number or SIP URI.
func (c *Controller) PlaceCall(destination string) {
	destination = strings.TrimSpace(destination)

	c.mu.Lock()
	switch {
	case destination == "":
		c.view.Log(LogError, "Please enter a destination number or SIP URI")
		c.unlock()
		return
	case c.client == nil:
		c.view.Log(LogError, "You must login first")
		c.unlock()
		return
	case !c.reg.Is(string(RegistrationRegistered)):
		c.view.Log(LogError, "Not registered yet")
		c.unlock()
		return
	case !fire(c.call, evPlace):
		c.view.Log(LogError, "A call is already in progress")
		c.unlock()
		return
	}

	c.view.Log(LogEvent, fmt.Sprintf("Calling %s...", destination))
	c.view.SetStatus("Calling...", StatusInCall)
	c.view.ShowDialing()
	client, gen := c.client, c.gen
	c.unlock()

	if err := client.Call(destination, map[string]string{}); err != nil {
		c.mu.Lock()
		defer c.unlock()
		if gen != c.gen {
			return
		}
		c.view.Log(LogError, fmt.Sprintf("Call failed: %v", err))
		fire(c.call, evEnd)
		c.endCallUI()
	}
}

func (c *Controller) AnswerCall() {
	c.mu.Lock()
	client := c.client
	if client == nil {
		c.unlock()
		return
	}
	c.view.Log(LogSuccess, "Answering call...")
	c.view.HideIncoming()
	c.view.ShowInCall()
	c.unlock()

	c.report("answer", client.Answer())
}

func (c *Controller) RejectCall() {
	c.mu.Lock()
	client := c.client
	if client == nil {
		c.unlock()
		return
	}
	c.view.Log(LogWarning, "Call rejected")
	c.view.HideIncoming()
	if c.call.Is(string(CallIncoming)) {
		fire(c.call, evEnd)
		c.restoreRegisteredStatus()
	}
	c.unlock()

	c.report("reject", client.Reject())
}

// HangUp asks the client to end the call; the UI follows the termination notification.
func (c *Controller) HangUp() {
	c.mu.Lock()
	client := c.client
	if client == nil {
		c.unlock()
		return
	}
	c.view.Log(LogInfo, "Hanging up...")
	c.unlock()

	c.report("hangup", client.Hangup())
}

// SendTone appends digit to the destination field and, during a call, sends it as DTMF.
func (c *Controller) SendTone(digit string) {
	c.mu.Lock()
	c.view.AppendDestination(digit)
	client := c.client
	if client == nil || !CallStatus(c.call.Current()).Active() {
		c.unlock()
		return
	}
	c.view.Log(LogInfo, fmt.Sprintf("DTMF: %s", digit))
	c.unlock()

	c.report("dtmf", client.SendDTMF(digit))
}

// ToggleMute flips the mute flag and issues the matching command without
// waiting for confirmation.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	client := c.client
	if client == nil {
		c.unlock()
		return
	}
	c.muted = !c.muted
	muted := c.muted
	c.view.SetMuted(muted)
	if muted {
		c.view.Log(LogWarning, "Muted")
	} else {
		c.view.Log(LogInfo, "Unmuted")
	}
	c.unlock()

	if muted {
		c.report("mute", client.Mute())
		return
	}
	c.report("unmute", client.Unmute())
}

func (c *Controller) ClearLog() {
	c.mu.Lock()
	defer c.unlock()
	c.view.ClearLog()
	c.view.Log(LogInfo, "Log cleared")
}

// Handle processes a notification against the current client.
func (c *Controller) Handle(n Notification) {
	c.mu.Lock()
	defer c.unlock()
	c.handle(n)
}

// dispatch drops notifications from clients that were already released.
func (c *Controller) dispatch(gen uint64, n Notification) {
	c.mu.Lock()
	defer c.unlock()
	if gen != c.gen {
		c.log.Debug("notification from released client dropped", "name", n.Name())
		return
	}
	c.handle(n)
}

func (c *Controller) handle(n Notification) {
	switch n := n.(type) {
	case TransportUnsupported:
		c.onTransportUnsupported()
	case LoginSucceeded:
		c.onLoginSucceeded(n)
	case LoginFailed:
		c.onLoginFailed(n)
	case LoggedOut:
		c.onLoggedOut(n)
	case RemoteRinging:
		c.onRemoteRinging(n)
	case CallAnswered:
		c.onCallAnswered(n)
	case CallTerminated:
		c.onCallTerminated(n)
	case CallFailed:
		c.onCallFailed(n)
	case IncomingCall:
		c.onIncomingCall(n)
	case IncomingCallCancelled:
		c.onIncomingCallCancelled(n)
	case MediaPermission:
		c.onMediaPermission(n)
	case ConnectionChange:
		c.onConnectionChange(n)
	default:
		c.log.Warn("unhandled notification", "name", n.Name())
	}
}

func (c *Controller) ignored(n Notification) {
	c.log.Debug("notification ignored",
		"name", n.Name(),
		"registration", c.reg.Current(),
		"call", c.call.Current(),
		"session_id", c.sessionID,
	)
}

func (c *Controller) onTransportUnsupported() {
	fire(c.reg, evTransportGone)
	c.view.Log(LogError, "WebRTC is not supported by this client")
	c.view.SetLoginBusy(false)
	c.view.ShowLoggedIn(false)
	c.view.HideCall()
	c.view.SetStatus("Disconnected", StatusOffline)
	c.teardown()
}

func (c *Controller) onLoginSucceeded(n LoginSucceeded) {
	if !fire(c.reg, evLoginOK) {
		c.ignored(n)
		return
	}
	c.view.Log(LogSuccess, "Successfully registered")
	c.view.SetStatus("Registered", StatusOnline)
	c.view.ShowLoggedIn(true)
	c.view.SetLoginBusy(false)
}

func (c *Controller) onLoginFailed(n LoginFailed) {
	if !fire(c.reg, evLoginFailed) {
		c.ignored(n)
		return
	}
	c.view.Log(LogError, "Login failed: "+orDefault(n.Reason, "Unknown error"))
	c.view.SetStatus("Login Failed", StatusOffline)
	c.view.SetLoginBusy(false)
	c.teardown()
}

func (c *Controller) onLoggedOut(n LoggedOut) {
	if !c.reg.Can(evLoggedOut) {
		c.ignored(n)
		return
	}
	c.loggedOut()
}

// loggedOut returns to the idle login controls and releases the client. Lock held.
func (c *Controller) loggedOut() {
	fire(c.reg, evLoggedOut)
	c.view.Log(LogWarning, "Logged out")
	c.view.SetStatus("Disconnected", StatusOffline)
	c.view.SetLoginBusy(false)
	c.view.ShowLoggedIn(false)
	c.view.HideCall()
	c.teardown()
}

func (c *Controller) onRemoteRinging(n RemoteRinging) {
	if !fire(c.call, evRemoteRinging) {
		c.ignored(n)
		return
	}
	c.view.Log(LogEvent, withCallID("Ringing...", n.CallID))
	c.view.SetStatus("Ringing", StatusInCall)
}

func (c *Controller) onCallAnswered(n CallAnswered) {
	if !fire(c.call, evAnswered) {
		c.ignored(n)
		return
	}
	c.view.Log(LogSuccess, withCallID("Call answered!", n.CallID))
	c.view.SetStatus("In Call", StatusInCall)
	c.view.ShowInCall()
	c.scheduleAttach()
}

// Termination always clears the call UI, whatever state the call was in.
func (c *Controller) onCallTerminated(n CallTerminated) {
	fire(c.call, evEnd)
	c.view.Log(LogWarning, "Call ended: "+orDefault(n.Reason, "Terminated"))
	c.endCallUI()
}

func (c *Controller) onCallFailed(n CallFailed) {
	fire(c.call, evEnd)
	c.view.Log(LogError, "Call failed: "+orDefault(n.Reason, "Unknown"))
	c.endCallUI()
}

func (c *Controller) onIncomingCall(n IncomingCall) {
	if !c.reg.Is(string(RegistrationRegistered)) || !fire(c.call, evIncoming) {
		c.ignored(n)
		return
	}
	c.view.Log(LogEvent, "Incoming call from: "+n.CallerName)
	c.view.SetStatus("Incoming Call", StatusInCall)
	c.view.ShowIncoming(n.CallerName)
}

func (c *Controller) onIncomingCallCancelled(n IncomingCallCancelled) {
	if !fire(c.call, evIncomingCanceled) {
		c.ignored(n)
		return
	}
	c.view.Log(LogWarning, "Incoming call cancelled by caller")
	c.restoreRegisteredStatus()
	c.view.HideIncoming()
}

func (c *Controller) onMediaPermission(n MediaPermission) {
	if n.Granted {
		c.view.Log(LogSuccess, "Microphone permission granted")
		return
	}
	c.view.Log(LogError, "Microphone permission denied")
}

func (c *Controller) onConnectionChange(n ConnectionChange) {
	raw, err := json.Marshal(n.Event)
	if err != nil {
		c.view.Log(LogEvent, fmt.Sprintf("Connection change: %v", n.Event))
		return
	}
	c.view.Log(LogEvent, "Connection change: "+string(raw))
}

// endCallUI returns the call controls to idle and resets mute. Lock held.
func (c *Controller) endCallUI() {
	c.cancelAttach()
	c.muted = false
	c.view.HideCall()
	c.restoreRegisteredStatus()
}

func (c *Controller) restoreRegisteredStatus() {
	if c.reg.Is(string(RegistrationRegistered)) {
		c.view.SetStatus("Registered", StatusOnline)
	}
}

// failInit reports a construction or login command failure. Lock held.
func (c *Controller) failInit(err error) {
	c.view.Log(LogError, fmt.Sprintf("Error initializing SDK: %v", err))
	c.view.SetLoginBusy(false)
	c.view.SetStatus("Error", StatusOffline)
	fire(c.reg, evInitFailed)
}

// teardown releases the current client. Its later notifications are dropped.
// Lock held; the client is closed by unlock.
func (c *Controller) teardown() {
	c.cancelAttach()
	if c.client != nil {
		c.retired = append(c.retired, c.client)
		c.log.Info("client released", "session_id", c.sessionID)
	}
	c.client = nil
	c.gen++
	c.sessionID = ""
	c.muted = false
	fire(c.call, evReset)
}

// report logs a failed command issued outside the lock.
func (c *Controller) report(op string, err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.unlock()
	c.view.Log(LogError, fmt.Sprintf("%s failed: %v", op, err))
}

func (c *Controller) scheduleAttach() {
	c.cancelAttach()
	c.attachSeq++
	id := c.attachSeq
	t := c.sched.AfterFunc(c.attachDelay, func() { c.runAttach(id) })
	c.attach = &attachTask{id: id, timer: t}
}

func (c *Controller) cancelAttach() {
	if c.attach == nil {
		return
	}
	c.attach.timer.Stop()
	c.attach = nil
}

// runAttach is the best-effort remote audio attachment. It runs once and never retries.
func (c *Controller) runAttach(id uint64) {
	c.mu.Lock()
	if c.attach == nil || c.attach.id != id {
		c.unlock()
		return
	}
	c.attach = nil
	client, sink, gen := c.client, c.sink, c.gen
	c.unlock()

	stream, fromReceivers := findRemoteStream(client)
	var playErr error
	if stream != nil && sink != nil {
		playErr = sink.Play(stream)
	}

	c.mu.Lock()
	defer c.unlock()
	if gen != c.gen {
		return
	}
	if fromReceivers {
		c.view.Log(LogInfo, "Found audio track from peer connection receivers")
	}
	if stream == nil || sink == nil {
		c.view.Log(LogWarning, "Could not find remote stream to attach")
		return
	}
	c.view.Log(LogInfo, "Remote stream found, attaching to backup audio element...")
	if playErr != nil {
		c.view.Log(LogError, fmt.Sprintf("Error playing audio: %v", playErr))
	}
}

func withCallID(msg, callID string) string {
	if callID == "" {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, callID)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
