// Package table converts smoketest results into rows for table output.
package table

import (
	"strconv"
	"time"

	"github.com/agentstation/smoketest/internal/cmd/emoji"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/probe"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment.
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// EndpointsToTableData lists every endpoint with the URL it will be probed at.
func EndpointsToTableData(specs []discovery.ServiceSpec, wide bool) Data {
	headers := []string{"Service", "Operation", "URL"}
	if wide {
		headers = append(headers, "Summary", "Spec File")
	}

	var rows [][]string
	for _, spec := range specs {
		for _, ep := range spec.Endpoints {
			row := []string{spec.ServiceName, ep.OperationID, spec.URL(ep)}
			if wide {
				row = append(row, ep.Summary, spec.SpecFile)
			}
			rows = append(rows, row)
		}
	}
	return Data{Headers: headers, Rows: rows}
}

// SpecRow describes one spec file for the specs command.
type SpecRow struct {
	File        string `json:"file" yaml:"file"`
	Service     string `json:"service" yaml:"service"`
	Type        string `json:"type" yaml:"type"`
	Version     string `json:"version" yaml:"version"`
	ServerURL   string `json:"serverUrl" yaml:"serverUrl"`
	BaseURL     string `json:"baseUrl" yaml:"baseUrl"`
	Paths       int    `json:"paths" yaml:"paths"`
	Testable    int    `json:"testable" yaml:"testable"`
	InspectNote string `json:"inspectNote,omitempty" yaml:"inspectNote,omitempty"`
}

// SpecsToTableData converts spec rows to table format.
func SpecsToTableData(specs []SpecRow, wide bool) Data {
	headers := []string{"Service", "Type", "Version", "Paths", "Testable", "File"}
	if wide {
		headers = append(headers, "Server URL", "Base URL", "Note")
	}

	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		kind := s.Type
		if kind == "" {
			kind = emoji.Warning
		}
		row := []string{s.Service, kind, s.Version, strconv.Itoa(s.Paths), strconv.Itoa(s.Testable), s.File}
		if wide {
			row = append(row, s.ServerURL, s.BaseURL, s.InspectNote)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// ResultsToTableData converts probe results to table format.
func ResultsToTableData(results []probe.Result) Data {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		mark := emoji.Success
		if !r.Success {
			mark = emoji.Error
		}
		status := "ERR"
		if r.Status != 0 {
			status = strconv.Itoa(r.Status)
		}
		rows = append(rows, []string{mark, r.Service, status, r.URL, r.StatusText, r.Duration.Round(time.Millisecond).String()})
	}

	return Data{
		Headers:         []string{"", "Service", "Status", "URL", "Detail", "Duration"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignRight},
	}
}
