package main

import (
	"strings"
	"sync"
)

// logTail is an io.Writer that keeps the last max lines written to it, so
// the TUI can render a scrolling diagnostics pane without reading back
// from a file. logrus writes a line at a time; ProcessBlock never touches
// it, so no real-time-thread contention applies here.
type logTail struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newLogTail(max int) *logTail {
	return &logTail{max: max}
}

func (l *logTail) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line == "" {
		return len(p), nil
	}
	l.mu.Lock()
	l.lines = append(l.lines, line)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
	l.mu.Unlock()
	return len(p), nil
}

func (l *logTail) Tail() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
