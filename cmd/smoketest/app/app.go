// Package app provides the application context and dependency management
// for the smoketest CLI. It centralizes configuration, logging and the
// output streams so commands only see the application.Application interface.
package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/smoketest/cmd/application"
	"github.com/agentstation/smoketest/pkg/errors"
)

// App represents the smoketest application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	// customLogger keeps an injected logger across setupCommand.
	customLogger bool

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance with the given version information.
// The app is initialized from LoadConfig; options can replace any part.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, errors.NewConfigError("app", "failed to load configuration: "+err.Error(), err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config, app.stderr)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format, or "" to use the default.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Root returns the repository root.
func (a *App) Root() string {
	return a.config.Root
}

// SpecPattern returns the spec glob relative to Root.
func (a *App) SpecPattern() string {
	return a.config.Pattern
}

// Timeout returns the configured probe timeout.
func (a *App) Timeout() time.Duration {
	return a.config.Timeout
}

// Ports returns the configured service ports.
func (a *App) Ports() map[string]string {
	return a.config.Ports
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Quiet reports whether progress output is suppressed.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// Stdout returns the writer commands print to.
func (a *App) Stdout() io.Writer {
	return a.stdout
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.customLogger = logger != nil
		return nil
	}
}

// WithOutput sets the writers used for command output and warnings.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
		return nil
	}
}

// Ensure App implements Application at compile time.
var _ application.Application = (*App)(nil)
