package console

import (
	"context"
	"log/slog"
	"sync"

	"vobiz-console/internal/session"
)

// Controls is the visible state of the phone page.
type Controls struct {
	Status      string
	StatusClass session.StatusClass

	LoginBusy bool
	// LoggedIn shows the logout control in place of the login control.
	LoggedIn bool

	CallButton    bool
	AnswerButton  bool
	RejectButton  bool
	HangupButton  bool
	MediaControls bool

	CallerName  string
	Muted       bool
	Destination string
}

// Panel is a headless phone page. It implements session.View.
type Panel struct {
	mu  sync.Mutex
	log *Log
	c   Controls
}

var _ session.View = (*Panel)(nil)

func NewPanel(log *Log) *Panel {
	if log == nil {
		log = NewLog(NewMemoryRepo(), nil)
	}
	return &Panel{
		log: log,
		c: Controls{
			Status:      "Disconnected",
			StatusClass: session.StatusOffline,
			CallButton:  true,
		},
	}
}

// Loaded writes the start-up lines the page shows before any interaction.
func (p *Panel) Loaded() {
	p.Log(session.LogInfo, "Vobiz Browser SDK Console loaded")
	p.Log(session.LogInfo, `Enter your endpoint credentials and click "Connect & Register"`)
}

// Controls returns a copy of the current control state.
func (p *Panel) Controls() Controls {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.c
}

// SetDestination replaces the destination field, as typing would.
func (p *Panel) SetDestination(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.c.Destination = v
}

func (p *Panel) Log(level session.LogLevel, msg string) {
	if err := p.log.Write(context.Background(), level, msg); err != nil {
		p.log.log.Warn("panel log write failed", "err", err, "message", msg)
	}
}

func (p *Panel) ClearLog() {
	if err := p.log.Clear(context.Background()); err != nil {
		p.log.log.Warn("panel log clear failed", "err", err)
	}
}

func (p *Panel) SetStatus(text string, class session.StatusClass) {
	p.update(func(c *Controls) {
		c.Status = text
		c.StatusClass = class
	})
}

func (p *Panel) SetLoginBusy(busy bool) {
	p.update(func(c *Controls) { c.LoginBusy = busy })
}

func (p *Panel) ShowLoggedIn(loggedIn bool) {
	p.update(func(c *Controls) { c.LoggedIn = loggedIn })
}

func (p *Panel) ShowDialing() {
	p.update(func(c *Controls) {
		c.CallButton = false
		c.HangupButton = true
	})
}

func (p *Panel) ShowInCall() {
	p.update(func(c *Controls) {
		c.CallButton = false
		c.AnswerButton = false
		c.HangupButton = true
		c.MediaControls = true
	})
}

func (p *Panel) HideCall() {
	p.update(func(c *Controls) {
		c.CallButton = true
		c.AnswerButton = false
		c.RejectButton = false
		c.HangupButton = false
		c.MediaControls = false
		c.Muted = false
	})
}

func (p *Panel) ShowIncoming(callerName string) {
	p.update(func(c *Controls) {
		c.AnswerButton = true
		c.RejectButton = true
		c.CallButton = false
		c.CallerName = callerName
	})
}

func (p *Panel) HideIncoming() {
	p.update(func(c *Controls) {
		c.AnswerButton = false
		c.RejectButton = false
		c.CallButton = true
		c.CallerName = ""
	})
}

func (p *Panel) SetMuted(muted bool) {
	p.update(func(c *Controls) { c.Muted = muted })
}

func (p *Panel) AppendDestination(digit string) {
	p.update(func(c *Controls) { c.Destination += digit })
}

func (p *Panel) update(f func(*Controls)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f(&p.c)
	p.log.log.Debug("controls updated", slog.Any("controls", p.c))
}
