// Package notify provides catalog.Notifier implementations: a structured log
// sink, a plain text writer, an in-memory recorder and a fan-out.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Notifier mirrors catalog.Notifier so this package stays import-free of it.
type Notifier interface {
	Notify(message string)
}

// Log writes each message to a logger at INFO, one attribute per line of the
// message so JSON output stays greppable.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger.With("component", "notify")}
}

// Notify implements Notifier.
func (l *Log) Notify(message string) {
	lines := strings.Split(strings.TrimRight(message, "\n"), "\n")
	l.logger.Info(lines[0], "lines", lines[1:])
}

// Writer prints each message followed by a blank line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer notifier over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify implements Notifier. Write errors are dropped: a notification is
// best effort.
func (w *Writer) Notify(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, "%s\n\n", strings.TrimRight(message, "\n"))
}

// Recorder keeps every message in memory, in order.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements Notifier.
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

// Last returns the most recent message, or "" if none.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

// Reset drops every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

// Multi forwards each message to every notifier, in order. Nil entries are skipped.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(message)
		}
	}
}
