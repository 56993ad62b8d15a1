// Package internal contains internal implementation details.
package internal

import "github.com/bassosimone/coexsim"

// NullLogger is a [coexsim.Logger] that does not emit logs.
type NullLogger struct{}

// Debug implements coexsim.Logger
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements coexsim.Logger
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements coexsim.Logger
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements coexsim.Logger
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements coexsim.Logger
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements coexsim.Logger
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

var _ coexsim.Logger = &NullLogger{}
