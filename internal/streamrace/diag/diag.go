// Package diag provides the structured, leveled diagnostic logging used
// when the happens-before engine recovers from a trace anomaly (an
// out-of-order or missing lifecycle event). These are always recovered
// locally and logged at info level, never surfaced as errors.
package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Logger is the leveled logger used for back-fill and duplicate-event
// diagnostics. It defaults to a standard hclog logger named "streamrace"
// so engines created without explicit configuration still emit readable
// diagnostics; callers that embed the engine in a larger program should
// replace it with their own named sub-logger.
var Logger hclog.Logger = hclog.New(&hclog.LoggerOptions{
	Name:  "streamrace",
	Level: hclog.Info,
})

// Backfill logs the recovery from an unexpected or out-of-order lifecycle
// event: the trace may legitimately begin mid-program, so these are never
// errors, only info-level notices. msg is a printf-style template.
func Backfill(msg string, args ...interface{}) {
	Logger.Info(oneLine(fmt.Sprintf(msg, args...)))
}

// oneLine collapses a (possibly indented, multi-line) diagnostic message
// onto a single line for a cleaner log entry.
func oneLine(msg string) string {
	lines := strings.Split(msg, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	joined := strings.Join(lines, " ")
	return strings.TrimSpace(joined)
}
