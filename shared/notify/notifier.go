package notify

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// Severity of a user-facing notification
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notifier delivers transient, fire-and-forget messages to the user.
// Implementations must not block the caller for long.
type Notifier interface {
	Notify(severity Severity, title, message string)
}

// Notification is the envelope sent to sinks that keep or forward messages
type Notification struct {
	ID       string    `json:"id"`
	Severity Severity  `json:"severity"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

func newNotification(severity Severity, title, message string) Notification {
	return Notification{
		ID:       uuid.NewString(),
		Severity: severity,
		Title:    title,
		Message:  message,
		Time:     time.Now(),
	}
}

// Func adapts a plain function to Notifier
type Func func(severity Severity, title, message string)

func (f Func) Notify(severity Severity, title, message string) {
	f(severity, title, message)
}

// LogNotifier writes notifications to the standard logger
type LogNotifier struct{}

func (LogNotifier) Notify(severity Severity, title, message string) {
	if severity == SeverityError {
		log.Printf("🚨 %s: %s", title, message)
		return
	}
	log.Printf("ℹ️  %s: %s", title, message)
}

// Multi fans a notification out to every non-nil notifier
type Multi []Notifier

func (m Multi) Notify(severity Severity, title, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(severity, title, message)
		}
	}
}
