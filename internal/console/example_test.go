package console_test

import (
	"context"
	"fmt"
	"time"

	"vobiz-console/internal/console"
	"vobiz-console/internal/session"
)

// echoClient registers on Login and answers every call.
type echoClient struct {
	notify func(session.Notification)
}

func (c *echoClient) Subscribe(h func(session.Notification)) { c.notify = h }

func (c *echoClient) Login(string, string) error {
	c.notify(session.LoginSucceeded{})
	return nil
}

func (c *echoClient) Call(string, map[string]string) error {
	c.notify(session.CallAnswered{CallID: "demo"})
	return nil
}

func (c *echoClient) Hangup() error {
	c.notify(session.CallTerminated{CallID: "demo"})
	return nil
}

func (c *echoClient) Logout() error                    { return nil }
func (c *echoClient) Answer() error                    { return nil }
func (c *echoClient) Reject() error                    { return nil }
func (c *echoClient) Mute() error                      { return nil }
func (c *echoClient) Unmute() error                    { return nil }
func (c *echoClient) SendDTMF(string) error            { return nil }
func (c *echoClient) RemoteView() *session.MediaStream { return nil }
func (c *echoClient) Receivers() []session.Receiver    { return nil }

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

type manualScheduler struct{}

func (manualScheduler) AfterFunc(time.Duration, func()) session.Timer { return manualTimer{} }

func ExamplePanel() {
	log := console.NewLog(console.NewMemoryRepo(), nil)
	panel := console.NewPanel(log)
	panel.Loaded()

	ctrl := session.New(
		func(session.ClientOptions) (session.Client, error) { return &echoClient{}, nil },
		panel,
		session.WithScheduler(manualScheduler{}),
	)
	ctrl.Connect("alice", "secret")
	ctrl.PlaceCall("+919148227303")
	ctrl.HangUp()

	entries, _ := log.Entries(context.Background())
	for _, e := range entries {
		fmt.Printf("%-7s %s\n", e.Level, e.Message)
	}
	fmt.Println(panel.Controls().Status)

	// Output:
	// info    Vobiz Browser SDK Console loaded
	// info    Enter your endpoint credentials and click "Connect & Register"
	// event   Connecting as alice...
	// success Successfully registered
	// event   Calling +919148227303...
	// success Call answered! (demo)
	// info    Hanging up...
	// warning Call ended: Terminated
	// Registered
}
