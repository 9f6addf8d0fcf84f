package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/smoketest/internal/cmd/emoji"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/probe"
)

func TestEndpointsToTableData(t *testing.T) {
	specs := []discovery.ServiceSpec{{
		ServiceName: "directory",
		BaseURL:     "http://localhost:9090",
		SpecFile:    "microservices/directory/openapi/api.yaml",
		Endpoints: []discovery.EndpointDescriptor{
			{Path: "/health", OperationID: "health", Summary: "Liveness"},
			{Path: "/policyholders", OperationID: "listPolicyholders"},
		},
	}}

	data := EndpointsToTableData(specs, false)
	assert.Equal(t, []string{"Service", "Operation", "URL"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"directory", "health", "http://localhost:9090/health"}, data.Rows[0])

	wide := EndpointsToTableData(specs, true)
	assert.Len(t, wide.Headers, 5)
	assert.Equal(t, "Liveness", wide.Rows[0][3])
	assert.Equal(t, "microservices/directory/openapi/api.yaml", wide.Rows[1][4])
}

func TestSpecsToTableData(t *testing.T) {
	rows := []SpecRow{
		{File: "a.yaml", Service: "directory", Type: "openapi", Version: "3.0.3", Paths: 4, Testable: 2},
		{File: "b.yaml", Service: "portal-bff", Paths: 1, InspectNote: "unknown spec type"},
	}

	data := SpecsToTableData(rows, false)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"directory", "openapi", "3.0.3", "4", "2", "a.yaml"}, data.Rows[0])
	assert.Equal(t, emoji.Warning, data.Rows[1][1])
	assert.Len(t, data.ColumnAlignment, len(data.Headers))

	wide := SpecsToTableData(rows, true)
	assert.Equal(t, "unknown spec type", wide.Rows[1][8])
}

func TestResultsToTableData(t *testing.T) {
	data := ResultsToTableData([]probe.Result{
		{Service: "directory", URL: "http://localhost:8081/health", Success: true, Status: 200, StatusText: "OK", Duration: 12345 * time.Microsecond},
		{Service: "portal-bff", URL: "http://localhost:7777/api/me", StatusText: "Timeout after 5000ms", Duration: 5 * time.Second},
	})

	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{emoji.Success, "directory", "200", "http://localhost:8081/health", "OK", "12ms"}, data.Rows[0])
	assert.Equal(t, emoji.Error, data.Rows[1][0])
	assert.Equal(t, "ERR", data.Rows[1][2])
	assert.Equal(t, "5s", data.Rows[1][5])
}
