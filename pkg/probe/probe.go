// Package probe issues the smoke-test GET requests.
//
// Probes run strictly one after another: services in order, endpoints in
// order, and the run halts at the first endpoint that does not answer 2xx
// within the timeout.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/errors"
	"github.com/agentstation/smoketest/pkg/logging"
)

// Prober runs sequential GET probes.
type Prober struct {
	config
}

// New creates a Prober.
func New(opts ...Option) (*Prober, error) {
	cfg := config{
		timeout: constants.DefaultProbeTimeout,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Prober{config: cfg}, nil
}

// Timeout returns the per-request timeout.
func (p *Prober) Timeout() time.Duration {
	return p.timeout
}

// Probe issues one GET to endpoint.Path under baseURL. It never returns an error;
// transport failures and timeouts are reported in the Result with status 0.
func (p *Prober) Probe(ctx context.Context, baseURL string, endpoint discovery.EndpointDescriptor) (result Result) {
	result = Result{
		URL:         discovery.JoinURL(baseURL, endpoint.Path),
		Path:        endpoint.Path,
		OperationID: endpoint.OperationID,
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, result.URL, nil)
	if err != nil {
		result.StatusText = fmt.Sprintf("invalid request: %v", err)
		return result
	}
	req.Header.Set("Accept", constants.AcceptHeader)

	resp, err := p.client.Do(req)
	if err != nil {
		result.StatusText = p.failureText(ctx, reqCtx, err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.Status = resp.StatusCode
	result.StatusText = statusText(resp)
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, constants.MaxDrainBytes))
	return result
}

// Run probes every endpoint of every service in order and stops at the first
// failure. A canceled ctx fails the probe in flight and ends the run.
func (p *Prober) Run(ctx context.Context, specs []discovery.ServiceSpec) *Report {
	runID := p.runID
	if runID == "" {
		runID = logging.RunID(ctx)
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	report := &Report{
		RunID:     runID,
		StartedAt: time.Now(),
	}
	for _, spec := range specs {
		report.Discovered += len(spec.Endpoints)
	}

	logger := *p.log(ctx)
	if logging.RunID(ctx) != runID {
		logger = logger.With().Str(logging.RunIDKey, runID).Logger()
	}
	logger.Debug().
		Int("services", len(specs)).
		Int("endpoints", report.Discovered).
		Dur("timeout", p.timeout).
		Msg("Starting smoke run")

run:
	for _, spec := range specs {
		for _, endpoint := range spec.Endpoints {
			result := p.Probe(ctx, spec.BaseURL, endpoint)
			result.Service = spec.ServiceName

			report.Tested++
			report.Results = append(report.Results, result)
			if p.observer != nil {
				p.observer(result)
			}

			event := logger.Debug()
			if !result.Success {
				event = logger.Warn()
			}
			event.Str(logging.ServiceKey, result.Service).
				Str(logging.URLKey, result.URL).
				Int("status", result.Status).
				Dur("duration", result.Duration).
				Msg(result.StatusText)

			if !result.Success {
				failed := result
				report.Failed = &failed
				break run
			}
		}
	}

	report.Duration = time.Since(report.StartedAt)
	logger.Info().
		Int("tested", report.Tested).
		Int("discovered", report.Discovered).
		Bool("passed", report.Passed()).
		Dur("duration", report.Duration).
		Msg("Smoke run finished")
	return report
}

func (p *Prober) log(ctx context.Context) *zerolog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.FromContext(ctx)
}

// failureText describes a transport error. A deadline hit by our own timeout
// reads "Timeout after Nms"; a canceled parent reports the cancellation.
func (p *Prober) failureText(parent, reqCtx context.Context, err error) string {
	if parent.Err() != nil {
		return errors.ErrCanceled.Error() + ": " + parent.Err().Error()
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("Timeout after %dms", p.timeout.Milliseconds())
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// statusText strips the numeric code from resp.Status, e.g. "404 Not Found" -> "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
