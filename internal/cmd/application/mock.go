// Package application provides a mock Application for command tests.
package application

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	app "github.com/agentstation/smoketest/cmd/application"
	"github.com/agentstation/smoketest/pkg/constants"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	var buf bytes.Buffer
//	mock := &application.Mock{
//	    RootFunc:   func() string { return root },
//	    StdoutFunc: func() io.Writer { return &buf },
//	}
//	cmd := list.NewCommand(mock)
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	RootFunc         func() string
	SpecPatternFunc  func() string
	TimeoutFunc      func() time.Duration
	PortsFunc        func() map[string]string
	NoColorFunc      func() bool
	QuietFunc        func() bool
	StdoutFunc       func() io.Writer
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Root returns the root using the mock function or ".".
func (m *Mock) Root() string {
	if m.RootFunc != nil {
		return m.RootFunc()
	}
	return "."
}

// SpecPattern returns the pattern using the mock function or the default pattern.
func (m *Mock) SpecPattern() string {
	if m.SpecPatternFunc != nil {
		return m.SpecPatternFunc()
	}
	return constants.DefaultSpecPattern
}

// Timeout returns the timeout using the mock function or the default.
func (m *Mock) Timeout() time.Duration {
	if m.TimeoutFunc != nil {
		return m.TimeoutFunc()
	}
	return constants.DefaultProbeTimeout
}

// Ports returns ports using the mock function or nil.
func (m *Mock) Ports() map[string]string {
	if m.PortsFunc != nil {
		return m.PortsFunc()
	}
	return nil
}

// NoColor returns the mock function result or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// Quiet returns the mock function result or false.
func (m *Mock) Quiet() bool {
	if m.QuietFunc != nil {
		return m.QuietFunc()
	}
	return false
}

// Stdout returns the writer using the mock function or os.Stdout.
func (m *Mock) Stdout() io.Writer {
	if m.StdoutFunc != nil {
		return m.StdoutFunc()
	}
	return os.Stdout
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ app.Application = (*Mock)(nil)
