// Package klog wraps charmbracelet/log with the Default()/Named()
// global-logger shape the teacher's own pkg/framework/debug package
// uses, swapping its hand-rolled writer for a structured, leveled
// logger so fields (node refs, plan ids, buffer counts) attach instead
// of being string-formatted in by hand.
package klog

import (
	"os"

	"github.com/charmbracelet/log"
)

var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// Default returns the root logger.
func Default() *log.Logger {
	return defaultLogger
}

// Named returns a child logger tagged with the given component name,
// e.g. klog.Named("controller") or klog.Named("renderer").
func Named(component string) *log.Logger {
	return defaultLogger.With("component", component)
}

// SetLevel sets the minimum level for the root logger and every logger
// derived from it via Named.
func SetLevel(level log.Level) {
	defaultLogger.SetLevel(level)
}
