// Package console prints the human-readable progress of a smoke run.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/agentstation/smoketest/internal/cmd/emoji"
	"github.com/agentstation/smoketest/internal/cmd/output"
	"github.com/agentstation/smoketest/pkg/probe"
)

// Printer writes progress lines and the final summary.
type Printer struct {
	w     io.Writer
	quiet bool

	green *color.Color
	red   *color.Color
}

// NewPrinter creates a Printer writing to w. Colors are used only when w is a
// terminal, noColor is false and NO_COLOR is unset. A quiet Printer prints the
// summary only.
func NewPrinter(w io.Writer, noColor, quiet bool) *Printer {
	p := &Printer{
		w:     w,
		quiet: quiet,
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed),
	}

	if noColor || os.Getenv("NO_COLOR") != "" || !output.IsTerminal(w) {
		p.green.DisableColor()
		p.red.DisableColor()
	} else {
		p.green.EnableColor()
		p.red.EnableColor()
	}
	return p
}

// Scanning announces the start of discovery.
func (p *Printer) Scanning() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.w, "Scanning OpenAPI files...")
	fmt.Fprintln(p.w)
}

// NoSpecs reports that no spec file matched.
func (p *Printer) NoSpecs() {
	fmt.Fprintln(p.w, "No OpenAPI spec files found.")
}

// Found reports the discovery totals.
func (p *Printer) Found(specFiles, endpoints int) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "Found %d spec files, %d testable GET endpoints\n\n", specFiles, endpoints)
}

// NoEndpoints reports that no spec declared a testable endpoint.
func (p *Printer) NoEndpoints() {
	fmt.Fprintln(p.w, "No testable GET endpoints found (endpoints without required path parameters).")
}

// Result prints one probe outcome. It matches probe.WithObserver.
func (p *Printer) Result(r probe.Result) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "Testing: GET %s\n", r.URL)
	if r.Success {
		fmt.Fprintf(p.w, "  %s %d %s\n\n", p.green.Sprint(emoji.Success), r.Status, r.StatusText)
		return
	}

	status := "ERR"
	if r.Status != 0 {
		status = fmt.Sprint(r.Status)
	}
	fmt.Fprintf(p.w, "  %s %s %s\n\n", p.red.Sprint(emoji.Error), status, r.StatusText)
}

// Summary prints the separator and the pass/fail line.
func (p *Printer) Summary(report *probe.Report) {
	fmt.Fprintln(p.w, emoji.Separator)
	if !report.Passed() {
		fmt.Fprintf(p.w, "%s %s\n", p.red.Sprint("FAILED:"), report.Summary())
		fmt.Fprintf(p.w, "  Failed URL: %s\n", report.Failed.URL)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.green.Sprint("SUCCESS:"), report.Summary())
}
