// Package cmdutil provides flags and helpers shared by smoketest commands.
package cmdutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/errors"
)

// PortFlags holds the explicit service=port overrides.
type PortFlags struct {
	Ports []string
}

// AddPortFlags adds the repeatable --port flag to cmd.
func AddPortFlags(cmd *cobra.Command) *PortFlags {
	flags := &PortFlags{}
	cmd.Flags().StringArrayVarP(&flags.Ports, "port", "p", nil,
		"Port for a service with a relative server URL, as service=port (repeatable)")
	return flags
}

// Parse returns the overrides as a map.
func (f *PortFlags) Parse() (map[string]string, error) {
	return ParsePorts(f.Ports)
}

// ParsePorts parses service=port pairs. Later pairs win.
func ParsePorts(pairs []string) (map[string]string, error) {
	ports := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		service, port, ok := strings.Cut(pair, "=")
		service = strings.TrimSpace(service)
		port = strings.TrimSpace(port)
		if !ok || service == "" {
			return nil, errors.NewValidationError("port", pair, "expected service=port")
		}
		if err := ValidatePort(port); err != nil {
			return nil, err
		}
		ports[service] = port
	}
	return ports, nil
}

// ValidatePort checks that port is a TCP port number.
func ValidatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return errors.NewValidationError("port", port, "must be a number between 1 and 65535")
	}
	return nil
}

// MergePorts returns base overlaid with overrides.
func MergePorts(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// RunFlags holds the flags of a smoke run.
type RunFlags struct {
	*PortFlags
	Timeout     time.Duration
	Report      string
	MetricsFile string
}

// AddRunFlags adds the smoke run flags to cmd.
func AddRunFlags(cmd *cobra.Command) *RunFlags {
	flags := &RunFlags{PortFlags: AddPortFlags(cmd)}
	cmd.Flags().DurationVarP(&flags.Timeout, "timeout", "t", constants.DefaultProbeTimeout,
		"Per-request timeout")
	cmd.Flags().StringVar(&flags.Report, "report", "",
		"Write the full run report as JSON to this file")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "",
		"Write Prometheus metrics in textfile format to this file")
	return flags
}

// EffectiveTimeout returns the --timeout flag when set, otherwise fallback.
func (f *RunFlags) EffectiveTimeout(cmd *cobra.Command, fallback time.Duration) time.Duration {
	if cmd.Flags().Changed("timeout") || fallback <= 0 {
		return f.Timeout
	}
	return fallback
}
