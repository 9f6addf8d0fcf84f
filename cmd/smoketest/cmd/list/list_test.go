package list

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/smoketest/internal/cmd/application"
	"github.com/agentstation/smoketest/pkg/discovery"
)

const directorySpec = `openapi: 3.0.3
servers:
  - url: /
paths:
  /health:
    get:
      operationId: health
      summary: Liveness
  /policyholders/{id}:
    get:
      operationId: getPolicyholder
`

func setup(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "microservices", "directory", "openapi", "api.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(directorySpec), 0o644))
	return root
}

func TestListJSON(t *testing.T) {
	root := setup(t)
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		RootFunc:         func() string { return root },
		OutputFormatFunc: func() string { return "json" },
		StdoutFunc:       func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{"--port", "directory=9090"})
	require.NoError(t, cmd.Execute())

	var services []discovery.ServiceSpec
	require.NoError(t, json.Unmarshal(buf.Bytes(), &services))
	require.Len(t, services, 1)
	assert.Equal(t, "directory", services[0].ServiceName)
	assert.Equal(t, "http://localhost:9090", services[0].BaseURL)
	require.Len(t, services[0].Endpoints, 1)
	assert.Equal(t, "health", services[0].Endpoints[0].OperationID)
}

func TestListWideTable(t *testing.T) {
	root := setup(t)
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		RootFunc:         func() string { return root },
		OutputFormatFunc: func() string { return "wide" },
		StdoutFunc:       func() io.Writer { return &buf },
		PortsFunc:        func() map[string]string { return map[string]string{"directory": "8181"} },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "http://localhost:8181/health")
	assert.Contains(t, out, "Liveness")
	assert.NotContains(t, out, "getPolicyholder")
}

func TestListEmptyRoot(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		RootFunc:         t.TempDir,
		OutputFormatFunc: func() string { return "json" },
		StdoutFunc:       func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, "[]", buf.String())
}

func TestListDefaultsToJSONWhenPiped(t *testing.T) {
	root := setup(t)
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		RootFunc:   func() string { return root },
		StdoutFunc: func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var services []discovery.ServiceSpec
	require.NoError(t, json.Unmarshal(buf.Bytes(), &services), "output: %s", buf.String())
	require.Len(t, services, 1)
	assert.Equal(t, "http://localhost:8081", services[0].BaseURL)
}

func TestListExplicitTable(t *testing.T) {
	root := setup(t)
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		RootFunc:         func() string { return root },
		OutputFormatFunc: func() string { return "table" },
		StdoutFunc:       func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.False(t, json.Valid(buf.Bytes()))
	assert.Contains(t, buf.String(), "http://localhost:8081/health")
}
