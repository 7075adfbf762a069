//go:build streamsondebug

package debug

import "log"

// Printf logs a trace message via the standard logger.
func Printf(msg string, args ...any) {
	log.Printf(msg, args...)
}

// On reports whether debug tracing is compiled in.
const On = true
