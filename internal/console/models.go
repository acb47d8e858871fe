package console

import (
	"fmt"
	"time"

	"vobiz-console/internal/session"
)

// Entry is one line of the session log panel.
//
// Entries are append-only; the only removal is Clear, which empties the panel.
type Entry struct {
	ID      string           `json:"id"`
	Level   session.LogLevel `json:"level"`
	Message string           `json:"message"`

	CreatedAt time.Time `json:"created_at"`
}

// String renders the entry as the panel shows it.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.CreatedAt.Format("15:04:05"), e.Message)
}

func validLevel(l session.LogLevel) bool {
	switch l {
	case session.LogInfo, session.LogSuccess, session.LogWarning, session.LogError, session.LogEvent:
		return true
	default:
		return false
	}
}
