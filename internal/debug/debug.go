//go:build !streamsondebug

// Package debug provides tracing hooks for the streamer and strategy
// state machines. Build with -tags streamsondebug to enable logging;
// otherwise Printf is a no-op that the compiler can inline away.
package debug

// Printf logs a trace message when built with -tags streamsondebug.
func Printf(msg string, args ...any) {}

// On reports whether debug tracing is compiled in.
const On = false
