// Package ui renders engine state for a terminal and carries the
// in-app toast channel. Pure functions over snapshots; no engine state
// lives here.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// TermToaster writes toast messages to a terminal. It satisfies both
// notify.Toaster and discovery.Feedback.
type TermToaster struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTermToaster(out io.Writer) *TermToaster {
	return &TermToaster{out: out}
}

func (t *TermToaster) write(glyph, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s %s\n", glyph, msg)
}

func (t *TermToaster) Success(msg string) { t.write("✔", msg) }
func (t *TermToaster) Info(msg string)    { t.write("·", msg) }
func (t *TermToaster) Warn(msg string)    { t.write("!", msg) }
func (t *TermToaster) Error(msg string)   { t.write("✖", msg) }
