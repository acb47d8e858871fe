package session

// LogLevel categorizes a user-visible log entry.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
	LogEvent   LogLevel = "event"
)

// StatusClass is the indicator style next to the status text.
type StatusClass string

const (
	StatusOffline    StatusClass = "offline"
	StatusConnecting StatusClass = "connecting"
	StatusOnline     StatusClass = "online"
	StatusInCall     StatusClass = "in-call"
)

// View is the UI the Controller drives. Methods are called with the controller
// lock held and must not call back into the Controller.
type View interface {
	Log(level LogLevel, msg string)
	ClearLog()

	SetStatus(text string, class StatusClass)

	// SetLoginBusy toggles the connect button's loader.
	SetLoginBusy(busy bool)
	// ShowLoggedIn swaps the login and logout controls.
	ShowLoggedIn(loggedIn bool)

	// ShowDialing hides the call control and shows hang-up for an outbound attempt.
	ShowDialing()
	ShowInCall()
	// HideCall restores the idle call controls and the unmuted mute control.
	HideCall()
	ShowIncoming(callerName string)
	HideIncoming()

	SetMuted(muted bool)
	AppendDestination(digit string)
}
