// Package observ provides lightweight phase timing for formatter runs.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed stage of a run. Obtain it from Timer.Begin and close
// it with End.
type Phase struct {
	Name  string
	Note  string
	start time.Time
	dur   time.Duration
}

// End closes the phase, recording its duration and an optional note.
// Calling End on a nil phase is harmless.
func (p *Phase) End(note string) {
	if p == nil {
		return
	}
	p.dur = time.Since(p.start)
	p.Note = note
}

// Duration reports the elapsed time recorded by End.
func (p *Phase) Duration() time.Duration {
	if p == nil {
		return 0
	}
	return p.dur
}

// Timer tracks the execution time of the run's phases.
type Timer struct {
	phases []*Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a new named phase.
func (t *Timer) Begin(name string) *Phase {
	p := &Phase{Name: name, start: time.Now()}
	t.phases = append(t.phases, p)
	return p
}

// Summary renders the tracked phases and their total as human-readable
// text for the --timings output.
func (t *Timer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, millis(p.dur))
		if p.Note != "" {
			b.WriteString("  // ")
			b.WriteString(p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", millis(total))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
