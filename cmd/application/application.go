// Package application provides the application interface for smoketest commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            files, err := openapi.Discover(app.Root(), app.SpecPattern())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use files
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    RootFunc: func() string { return t.TempDir() },
//	    StdoutFunc: func() io.Writer { return &buf },
//	}
//	cmd := run.NewCommand(mock)
package application

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Application provides the application interface that commands need.
// The App struct from cmd/smoketest/app implements this interface.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the explicitly requested output format, or "".
	OutputFormat() string

	// Root returns the repository root that specs are discovered under.
	Root() string

	// SpecPattern returns the glob, relative to Root, matching spec files.
	SpecPattern() string

	// Timeout returns the configured per-request probe timeout.
	Timeout() time.Duration

	// Ports returns the configured explicit service ports.
	Ports() map[string]string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Quiet reports whether progress output is suppressed.
	Quiet() bool

	// Stdout returns the writer for command output.
	Stdout() io.Writer

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
