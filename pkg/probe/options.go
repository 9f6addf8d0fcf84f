package probe

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/smoketest/pkg/errors"
)

// Option is a function that configures a Prober.
type Option func(*config) error

// config holds the Prober settings.
type config struct {
	timeout  time.Duration
	client   *http.Client
	observer func(Result)
	logger   *zerolog.Logger
	runID    string
}

// WithTimeout bounds every request. The default is 5000ms.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return errors.NewValidationError("timeout", timeout, "must be positive")
		}
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for probes.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) error {
		if client == nil {
			return errors.NewValidationError("client", nil, "must not be nil")
		}
		c.client = client
		return nil
	}
}

// WithObserver registers fn to be called after every probe, in order.
func WithObserver(fn func(Result)) Option {
	return func(c *config) error {
		c.observer = fn
		return nil
	}
}

// WithLogger sets the logger used instead of the one carried by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithRunID fixes the run ID instead of generating one.
func WithRunID(id string) Option {
	return func(c *config) error {
		c.runID = id
		return nil
	}
}
