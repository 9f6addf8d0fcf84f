// Package metrics exports smoke run results as Prometheus metrics.
//
// A Collector owns its own registry so a run can be written to a
// node-exporter textfile without the Go runtime collectors.
package metrics

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/errors"
	"github.com/agentstation/smoketest/pkg/probe"
)

const namespace = "smoketest"

// Collector records probe results and run totals.
type Collector struct {
	registry *prometheus.Registry

	probeSuccess  *prometheus.GaugeVec
	probeDuration *prometheus.GaugeVec
	probeStatus   *prometheus.GaugeVec
	probesTotal   *prometheus.CounterVec

	discovered prometheus.Gauge
	tested     prometheus.Gauge
	passed     prometheus.Gauge
	success    prometheus.Gauge
	startTime  prometheus.Gauge
	duration   prometheus.Gauge
	runInfo    *prometheus.GaugeVec
}

// NewCollector creates a Collector with a private registry.
func NewCollector() *Collector {
	labels := []string{"service", "path"}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		probeSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_success",
			Help:      "Whether the last GET of an endpoint returned 2xx (1) or not (0).",
		}, labels),
		probeDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of the last GET of an endpoint.",
		}, labels),
		probeStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_status_code",
			Help:      "HTTP status of the last GET of an endpoint, 0 on transport failure.",
		}, labels),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Probes issued, by service and outcome.",
		}, []string{"service", "success"}),
		discovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoints_discovered",
			Help:      "Testable GET endpoints found in the last run.",
		}),
		tested: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoints_tested",
			Help:      "Endpoints probed in the last run.",
		}),
		passed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoints_passed",
			Help:      "Endpoints that returned 2xx in the last run.",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "Whether the last run passed (1) or failed (0).",
		}),
		startTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_start_timestamp_seconds",
			Help:      "Unix time the last run started.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		runInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_info",
			Help:      "Identifier of the last run, always 1.",
		}, []string{"run_id"}),
	}

	c.registry.MustRegister(
		c.probeSuccess, c.probeDuration, c.probeStatus, c.probesTotal,
		c.discovered, c.tested, c.passed, c.success,
		c.startTime, c.duration, c.runInfo,
	)
	return c
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records a single probe. It matches probe.WithObserver.
func (c *Collector) Observe(r probe.Result) {
	c.probeSuccess.WithLabelValues(r.Service, r.Path).Set(boolValue(r.Success))
	c.probeDuration.WithLabelValues(r.Service, r.Path).Set(r.Duration.Seconds())
	c.probeStatus.WithLabelValues(r.Service, r.Path).Set(float64(r.Status))
	c.probesTotal.WithLabelValues(r.Service, strconv.FormatBool(r.Success)).Inc()
}

// Record sets the run totals from report.
func (c *Collector) Record(report *probe.Report) {
	if report == nil {
		return
	}
	c.discovered.Set(float64(report.Discovered))
	c.tested.Set(float64(report.Tested))
	c.passed.Set(float64(report.PassedCount()))
	c.success.Set(boolValue(report.Passed()))
	c.startTime.Set(float64(report.StartedAt.UnixNano()) / 1e9)
	c.duration.Set(report.Duration.Seconds())

	c.runInfo.Reset()
	if report.RunID != "" {
		c.runInfo.WithLabelValues(report.RunID).Set(1)
	}
}

// WriteTextfile writes the metrics in text exposition format to path,
// creating parent directories as needed.
func (c *Collector) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
