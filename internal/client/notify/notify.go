// Package notify is the transient notification ("toast") layer. A loading
// notification is shown while a request is in flight and later replaced by a
// success or error notification carrying the same ID.
package notify

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Level classifies a notification.
type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// ID identifies a notification so it can be replaced or dismissed.
type ID uint64

// Notifier shows transient notifications. Passing a non-zero id to Success or
// Error replaces the notification with that ID.
type Notifier interface {
	Loading(msg string) ID
	Success(id ID, msg string) ID
	Error(id ID, msg string) ID
	Info(msg string) ID
	Dismiss(id ID)
}

// Toast is one rendered notification.
type Toast struct {
	ID    ID
	Level Level
	Text  string
}

// Console prints notifications to a writer, one line each. It also keeps the
// currently visible toasts so callers can inspect them.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	next   atomic.Uint64
	active map[ID]Toast
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w, active: make(map[ID]Toast)}
}

func (c *Console) Loading(msg string) ID {
	return c.show(0, LevelLoading, msg)
}

func (c *Console) Success(id ID, msg string) ID {
	return c.show(id, LevelSuccess, msg)
}

func (c *Console) Error(id ID, msg string) ID {
	return c.show(id, LevelError, msg)
}

func (c *Console) Info(msg string) ID {
	return c.show(0, LevelInfo, msg)
}

func (c *Console) Dismiss(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, id)
}

// Active returns the visible toasts in no particular order.
func (c *Console) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, 0, len(c.active))
	for _, t := range c.active {
		out = append(out, t)
	}
	return out
}

func (c *Console) show(id ID, level Level, msg string) ID {
	if id == 0 {
		id = ID(c.next.Add(1))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.active[id] = Toast{ID: id, Level: level, Text: msg}
	if c.w != nil {
		fmt.Fprintf(c.w, "%s %s\n", marker(level), msg)
	}
	return id
}

func marker(l Level) string {
	switch l {
	case LevelLoading:
		return "…"
	case LevelSuccess:
		return "✓"
	case LevelError:
		return "✗"
	default:
		return "•"
	}
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Loading(string) ID     { return 0 }
func (Nop) Success(ID, string) ID { return 0 }
func (Nop) Error(ID, string) ID   { return 0 }
func (Nop) Info(string) ID        { return 0 }
func (Nop) Dismiss(ID)            {}

var (
	_ Notifier = (*Console)(nil)
	_ Notifier = Nop{}
)
