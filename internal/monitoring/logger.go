// Package monitoring carries the process-wide diagnostic logger used by the
// long-running pieces of the toolkit.
package monitoring

import "log"

// Logf is the package-level diagnostic logger, defaulting to log.Printf.
// Callers that want silence or redirection swap it via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
