// Package inittimer traces the duration of the steps of backend assembly to an io.Writer.
package inittimer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Nanotime returns the current monotonic time in nanoseconds.
type Nanotime func() int64

// Timer writes one "START:" line before and one "FINISH:" line after each timed step, indented by nesting depth.
// A nil *Timer, or one created with a nil writer, does nothing.
//
// Timer is not safe for concurrent use.
type Timer struct {
	w        io.Writer
	nanotime Nanotime
	depth    int
}

// New returns a Timer writing to w, or nil if w is nil.
func New(w io.Writer) *Timer {
	return NewWithClock(w, monotonic())
}

// NewWithClock is like New, but reads time from nanotime.
func NewWithClock(w io.Writer, nanotime Nanotime) *Timer {
	if w == nil {
		return nil
	}
	return &Timer{w: w, nanotime: nanotime}
}

func monotonic() Nanotime {
	base := time.Now()
	return func() int64 {
		return int64(time.Since(base))
	}
}

// Time runs fn as the step named name and returns its error unchanged.
func (t *Timer) Time(name string, fn func() error) error {
	if t == nil {
		return fn()
	}
	indent := strings.Repeat("  ", t.depth)
	fmt.Fprintf(t.w, "%sSTART: %s\n", indent, name)
	start := t.nanotime()

	t.depth++
	err := fn()
	t.depth--

	elapsed := time.Duration(t.nanotime() - start)
	fmt.Fprintf(t.w, "%sFINISH: %s [%d ms]\n", indent, name, elapsed.Milliseconds())
	return err
}
