package kami

import (
	"fmt"
	"io"
	"os"
)

// SetDebugMode enables or disables debug output. When enabled, grabs, drops,
// rule hits and flush summaries are printed to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// debugf writes one [kami]-prefixed line when debug mode is on.
func (e *Engine) debugf(format string, args ...any) {
	if !e.debug {
		return
	}
	w := e.debugOut
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "[kami] "+format+"\n", args...)
}

// setDebugOutput redirects debug output; tests use it to capture lines.
func (e *Engine) setDebugOutput(w io.Writer) {
	e.debugOut = w
}
