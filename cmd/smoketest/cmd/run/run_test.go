package run

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/smoketest/internal/cmd/application"
	"github.com/agentstation/smoketest/pkg/errors"
	"github.com/agentstation/smoketest/pkg/probe"
)

func writeSpec(t *testing.T, root, service, content string) {
	t.Helper()
	path := filepath.Join(root, "microservices", service, "openapi", "api.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func specFor(serverURL string, paths ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "openapi: 3.0.3\nservers:\n  - url: %s\npaths:\n", serverURL)
	for _, p := range paths {
		fmt.Fprintf(&b, "  %s:\n    get:\n      operationId: %s\n", p, strings.Trim(p, "/"))
	}
	return b.String()
}

func execute(t *testing.T, mock *application.Mock, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	if mock.StdoutFunc == nil {
		mock.StdoutFunc = func() io.Writer { return &buf }
	}
	cmd := NewCommand(mock)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunFirstFailureStops(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	root := t.TempDir()
	writeSpec(t, root, "directory", specFor(server.URL, "/health", "/broken", "/never"))

	out, err := execute(t, &application.Mock{RootFunc: func() string { return root }})
	require.Error(t, err)
	assert.True(t, errors.IsSmokeFailure(err))
	assert.Equal(t, int32(2), calls.Load())

	assert.Contains(t, out, "Scanning OpenAPI files...")
	assert.Contains(t, out, "Found 1 spec files, 3 testable GET endpoints")
	assert.Contains(t, out, "Testing: GET "+server.URL+"/health\n  ✓ 200 OK")
	assert.Contains(t, out, "  ✗ 500 Internal Server Error")
	assert.Contains(t, out, "FAILED: 1/3 passed, stopped at first failure")
	assert.Contains(t, out, "  Failed URL: "+server.URL+"/broken")
	assert.NotContains(t, out, "/never")
}

func TestRunSuccessIsRepeatable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	root := t.TempDir()
	writeSpec(t, root, "directory", specFor(server.URL+"/", "/health", "/policyholders"))
	writeSpec(t, root, "incident", specFor(server.URL, "/incidents/{id}"))

	for i := 0; i < 2; i++ {
		out, err := execute(t, &application.Mock{RootFunc: func() string { return root }})
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 spec files, 2 testable GET endpoints")
		assert.Contains(t, out, "SUCCESS: All 2 endpoints returned 2xx responses")
	}
}

func TestRunRelativeServerUsesPortFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	root := t.TempDir()
	writeSpec(t, root, "portal-bff", specFor("/", "/api/health"))

	out, err := execute(t, &application.Mock{RootFunc: func() string { return root }}, "--port", "portal-bff="+u.Port())
	require.NoError(t, err)
	assert.Contains(t, out, "Testing: GET http://localhost:"+u.Port()+"/api/health")
}

func TestRunNoSpecs(t *testing.T) {
	out, err := execute(t, &application.Mock{RootFunc: t.TempDir})
	require.NoError(t, err)
	assert.Contains(t, out, "No OpenAPI spec files found.")
}

func TestRunNoTestableEndpoints(t *testing.T) {
	root := t.TempDir()
	writeSpec(t, root, "incident", specFor("/", "/incidents/{id}"))

	out, err := execute(t, &application.Mock{RootFunc: func() string { return root }})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 spec files, 0 testable GET endpoints")
	assert.Contains(t, out, "No testable GET endpoints found (endpoints without required path parameters).")
}

func TestRunMalformedSpec(t *testing.T) {
	root := t.TempDir()
	writeSpec(t, root, "directory", "paths: [unclosed")

	_, err := execute(t, &application.Mock{RootFunc: func() string { return root }})
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestRunInvalidPortFlag(t *testing.T) {
	_, err := execute(t, &application.Mock{RootFunc: t.TempDir}, "--port", "directory")
	assert.True(t, errors.IsValidationError(err))
}

func TestRunWritesArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	root := t.TempDir()
	writeSpec(t, root, "directory", specFor(server.URL, "/health"))

	out := t.TempDir()
	reportPath := filepath.Join(out, "reports", "smoke.json")
	metricsPath := filepath.Join(out, "smoke.prom")

	_, err := execute(t, &application.Mock{RootFunc: func() string { return root }},
		"--report", reportPath, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report probe.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.SpecFiles)
	assert.Equal(t, 1, report.Tested)
	assert.True(t, report.Passed())

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `smoketest_probe_success{path="/health",service="directory"} 1`)
	assert.Contains(t, string(metrics), `smoketest_run_info{run_id="`+report.RunID+`"} 1`)
}

func TestRunJSONFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	root := t.TempDir()
	writeSpec(t, root, "directory", specFor(server.URL, "/health"))

	out, err := execute(t, &application.Mock{
		RootFunc:         func() string { return root },
		OutputFormatFunc: func() string { return "json" },
	})
	require.NoError(t, err)

	var report probe.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, server.URL+"/health", report.Results[0].URL)
	assert.Equal(t, "directory", report.Results[0].Service)
}

func TestRunWideFormatAddsResultsTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	root := t.TempDir()
	writeSpec(t, root, "directory", specFor(server.URL, "/health"))

	out, err := execute(t, &application.Mock{
		RootFunc:         func() string { return root },
		OutputFormatFunc: func() string { return "wide" },
	})
	require.NoError(t, err)

	assert.Contains(t, out, "SUCCESS: All 1 endpoints returned 2xx responses")
	summary := strings.Index(out, "SUCCESS:")
	table := strings.LastIndex(out, "202")
	assert.Greater(t, table, summary, "results table follows the summary")
	assert.Contains(t, strings.ToUpper(out), "DURATION")
}
