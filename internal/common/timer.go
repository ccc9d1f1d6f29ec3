// Package common holds small helpers shared by the kielabel commands.
package common

import (
	"fmt"
	"log/slog"
	"time"
)

// Timer measures one unit of work, such as a label file or a check run.
type Timer struct {
	name     string
	start    time.Time
	duration time.Duration
}

// StartTimer starts a timer for the named unit of work.
func StartTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop records the elapsed time, logs it at debug level and returns it.
// Calling Stop again measures from the same start.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	slog.Debug("finished", "unit", t.name, "duration_ms", t.duration.Milliseconds())
	return t.duration
}

// Duration returns the time recorded by the last Stop.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the unit of work the timer measures.
func (t *Timer) Name() string {
	return t.name
}

func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration.Round(time.Millisecond))
}
