package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/smoketest/pkg/errors"
	"github.com/agentstation/smoketest/pkg/openapi"
)

func parse(t *testing.T, content string) *openapi.Document {
	t.Helper()
	doc, err := openapi.Parse([]byte(content), "test.yaml")
	require.NoError(t, err)
	return doc
}

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestExtractSkipsTemplatedPaths(t *testing.T) {
	doc := parse(t, `
paths:
  /health:
    get:
      operationId: health
  /claims/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
`)

	endpoints := Extract(doc)
	require.Len(t, endpoints, 1)
	assert.Equal(t, EndpointDescriptor{Path: "/health", OperationID: "health"}, endpoints[0])
}

func TestExtractParameters(t *testing.T) {
	doc := parse(t, `
paths:
  /search:
    get:
      operationId: search
      parameters:
        - name: q
          in: query
          required: true
  /tenant:
    get:
      parameters:
        - name: X-Tenant
          in: header
          required: true
  /session:
    get:
      parameters:
        - name: sid
          in: cookie
          required: true
  /optional-header:
    get:
      summary: Optional header only
      parameters:
        - name: X-Trace
          in: header
  /path-level:
    parameters:
      - name: X-Tenant
        in: header
        required: true
    get:
      operationId: pathLevel
  /by-ref:
    get:
      parameters:
        - $ref: '#/components/parameters/Tenant'
components:
  parameters:
    Tenant:
      name: X-Tenant
      in: header
      required: true
`)

	endpoints := Extract(doc)
	require.Len(t, endpoints, 2)
	assert.Equal(t, "/search", endpoints[0].Path)
	assert.Equal(t, "search", endpoints[0].OperationID)

	assert.Equal(t, "/optional-header", endpoints[1].Path)
	assert.Equal(t, "/optional-header", endpoints[1].OperationID, "operationId falls back to the path")
	assert.Equal(t, "Optional header only", endpoints[1].Summary)
}

func TestExtractKeepsDocumentOrderAndSkipsNonGet(t *testing.T) {
	doc := parse(t, `
paths:
  /b:
    get: {}
  /a:
    post:
      operationId: create
  /c:
    get:
      operationId: c
`)

	endpoints := Extract(doc)
	require.Len(t, endpoints, 2)
	assert.Equal(t, "/b", endpoints[0].Path)
	assert.Equal(t, "/c", endpoints[1].Path)

	assert.Empty(t, Extract(parse(t, "openapi: 3.0.0\n")))
	assert.Nil(t, Extract(nil))
}

func TestServiceName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/repo/microservices/portal-bff/openapi/bff.yaml", "portal-bff"},
		{"microservices/directory/openapi/api.yaml", "directory"},
		{"/repo/services/directory/openapi/api.yaml", "unknown"},
		{"/repo/microservices", "unknown"},
		{"/a/microservices/first/microservices/second/openapi/x.yaml", "first"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceName(tt.path))
		})
	}
}

func TestDeclaredServerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", DeclaredServerURL(parse(t, "paths: {}\n")))
	assert.Equal(t, "http://localhost:8080", DeclaredServerURL(parse(t, "servers: []\n")))
	assert.Equal(t, "/", DeclaredServerURL(parse(t, "servers:\n  - url: /\n  - url: http://other\n")))
	assert.Equal(t, "https://api.example.com/v1", DeclaredServerURL(parse(t, "servers:\n  - url: https://api.example.com/v1\n")))
	assert.Equal(t, "http://localhost:8080", DeclaredServerURL(nil))
}

func TestResolverPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		declared string
		opts     []ResolverOption
		want     string
	}{
		{
			name:     "absolute url is verbatim",
			service:  "directory",
			declared: "http://directory.internal:9000/api/",
			opts:     []ResolverOption{WithPort("directory", "1111")},
			want:     "http://directory.internal:9000/api/",
		},
		{
			name:     "default port",
			service:  "claims",
			declared: "/",
			opts:     []ResolverOption{WithGetenv(env(nil))},
			want:     "http://localhost:8080",
		},
		{
			name:     "env var",
			service:  "claims-api",
			declared: "/",
			opts:     []ResolverOption{WithGetenv(env(map[string]string{"CLAIMS_API_HOST_PORT": "7001"}))},
			want:     "http://localhost:7001",
		},
		{
			name:     "explicit override beats env var",
			service:  "claims-api",
			declared: "/v1",
			opts: []ResolverOption{
				WithGetenv(env(map[string]string{"CLAIMS_API_HOST_PORT": "7001"})),
				WithPorts(map[string]string{"claims-api": "7002"}),
			},
			want: "http://localhost:7002",
		},
		{
			name:     "empty url is relative",
			service:  "claims",
			declared: "",
			opts:     []ResolverOption{WithGetenv(env(map[string]string{"CLAIMS_HOST_PORT": "7003"}))},
			want:     "http://localhost:7003",
		},
		{
			name:     "legacy default",
			service:  "portal-bff",
			declared: "/",
			opts:     []ResolverOption{WithGetenv(env(nil))},
			want:     "http://localhost:7777",
		},
		{
			name:     "legacy variable",
			service:  "directory",
			declared: "/",
			opts: []ResolverOption{WithGetenv(env(map[string]string{
				"POLICYHOLDERS_HOST_PORT": "8181",
				"DIRECTORY_HOST_PORT":     "9090",
			}))},
			want: "http://localhost:8181",
		},
		{
			name:     "service variable beats legacy default",
			service:  "directory",
			declared: "/",
			opts:     []ResolverOption{WithGetenv(env(map[string]string{"DIRECTORY_HOST_PORT": "9090"}))},
			want:     "http://localhost:9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.opts...)
			assert.Equal(t, tt.want, r.Resolve(tt.service, tt.declared))
		})
	}
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "PORTAL_BFF_HOST_PORT", EnvVar("portal-bff"))
	assert.Equal(t, "SFTP_SERVER_HOST_PORT", EnvVar("sftp-server"))
	assert.Equal(t, "A_B_C_HOST_PORT", EnvVar("a.b c"))
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://notify.local:9999/ping", JoinURL("http://notify.local:9999/", "/ping"))
	assert.Equal(t, "http://notify.local:9999/ping", JoinURL("http://notify.local:9999", "/ping"))
	assert.Equal(t, "http://x/api//ping", JoinURL("http://x/api//", "/ping"))
	assert.Equal(t, "http://x/api/", JoinURL("http://x/api/", ""))
}

func TestIsRelative(t *testing.T) {
	assert.True(t, IsRelative(""))
	assert.True(t, IsRelative("/"))
	assert.True(t, IsRelative("/api/v1"))
	assert.False(t, IsRelative("http://localhost:8080"))
}

func writeSpec(t *testing.T, root, service, name, content string) string {
	t.Helper()
	path := filepath.Join(root, "microservices", service, "openapi", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	directory := writeSpec(t, root, "directory", "api.yaml", `
servers:
  - url: /
paths:
  /health:
    get:
      operationId: health
  /policyholders:
    get:
      operationId: listPolicyholders
`)
	empty := writeSpec(t, root, "incident", "api.yaml", `
servers:
  - url: /
paths:
  /incidents/{id}:
    get: {}
`)
	external := writeSpec(t, root, "notification", "api.yaml", `
servers:
  - url: http://notify.local:9999/
paths:
  /ping:
    get: {}
`)

	resolver := NewResolver(WithGetenv(env(map[string]string{"DIRECTORY_HOST_PORT": "9090"})))
	specs, stats, err := Build([]string{directory, empty, external}, resolver)
	require.NoError(t, err)

	assert.Equal(t, Stats{SpecFiles: 3, Services: 2, Endpoints: 3}, stats)
	require.Len(t, specs, 2)

	assert.Equal(t, "directory", specs[0].ServiceName)
	assert.Equal(t, "http://localhost:9090", specs[0].BaseURL)
	assert.Equal(t, "/", specs[0].DeclaredURL)
	assert.Equal(t, directory, specs[0].SpecFile)
	assert.Equal(t, "http://localhost:9090/health", specs[0].URL(specs[0].Endpoints[0]))

	assert.Equal(t, "notification", specs[1].ServiceName)
	assert.Equal(t, "http://notify.local:9999/ping", specs[1].URL(specs[1].Endpoints[0]))
}

func TestBuildAbortsOnMalformedSpec(t *testing.T) {
	root := t.TempDir()
	good := writeSpec(t, root, "directory", "api.yaml", "paths:\n  /health:\n    get: {}\n")
	bad := writeSpec(t, root, "portal-bff", "api.yaml", "paths: [unclosed")

	specs, stats, err := Build([]string{good, bad}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.Nil(t, specs)
	assert.Equal(t, 2, stats.SpecFiles)
}
