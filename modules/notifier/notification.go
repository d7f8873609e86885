package notifier

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Variant selects the toast styling on the client.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is one user-facing toast message.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     Variant   `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}

// newNotification builds a notification with a fresh ID and timestamp.
func newNotification(title, description string, variant Variant) *Notification {
	return &Notification{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   time.Now(),
	}
}

// historyLimit caps how many notifications the recent-history buffer keeps.
const historyLimit = 50

// history is a fixed-capacity ring of recent notifications, newest first on
// read.
type history struct {
	mu      sync.RWMutex
	entries []*Notification
}

func newHistory() *history {
	return &history{}
}

// add appends a notification, evicting the oldest past the limit.
func (h *history) add(n *Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, n)
	if len(h.entries) > historyLimit {
		h.entries = h.entries[len(h.entries)-historyLimit:]
	}
}

// recent returns up to limit notifications, newest first. limit <= 0 means
// all retained entries.
func (h *history) recent(limit int) []*Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*Notification, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// size returns the number of retained notifications.
func (h *history) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
