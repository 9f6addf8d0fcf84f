package cmdutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/logging"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, constants.ServicesDir, "directory", constants.SpecDir, "api.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("servers:\n  - url: /\npaths:\n  /health:\n    get: {}\n"), 0o644))

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	resolver := discovery.NewResolver(discovery.WithPort("directory", "9090"))

	found, err := Discover(ctx, root, constants.DefaultSpecPattern, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, found.Files)
	require.Len(t, found.Services, 1)
	assert.Equal(t, "http://localhost:9090", found.Services[0].BaseURL)
	assert.Equal(t, discovery.Stats{SpecFiles: 1, Services: 1, Endpoints: 1}, found.Stats)

	var resolved map[string]any
	for _, line := range tl.Lines() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "Resolved service" {
			resolved = entry
		}
	}
	require.NotNil(t, resolved, "output:\n%s", tl.Output())
	assert.Equal(t, "directory", resolved[logging.ServiceKey])
	assert.Equal(t, path, resolved[logging.SpecFileKey])
	assert.Equal(t, "http://localhost:9090", resolved["base_url"])
}

func TestDiscoverNoFiles(t *testing.T) {
	found, err := Discover(context.Background(), t.TempDir(), constants.DefaultSpecPattern, discovery.NewResolver())
	require.NoError(t, err)
	assert.Empty(t, found.Files)
	assert.Nil(t, found.Services)
}
