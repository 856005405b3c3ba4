package notify

import "sync"

const defaultInboxSize = 50

// Inbox queues notifications until the UI drains them. Each notification is
// handed out exactly once; when full, the oldest entries are dropped.
type Inbox struct {
	mu      sync.Mutex
	pending []Notification
	size    int
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size}
}

func (i *Inbox) Notify(severity Severity, title, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.pending = append(i.pending, newNotification(severity, title, message))
	if len(i.pending) > i.size {
		i.pending = i.pending[len(i.pending)-i.size:]
	}
}

// Drain returns the pending notifications and empties the inbox
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.pending
	i.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
