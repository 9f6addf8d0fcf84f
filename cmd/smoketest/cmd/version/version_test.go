package version

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/smoketest/internal/cmd/application"
)

func TestVersionText(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		VersionFunc:      func() string { return "1.2.3" },
		OutputFormatFunc: func() string { return "table" },
		StdoutFunc:       func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "smoketest version 1.2.3\n")
	assert.Contains(t, buf.String(), "commit: unknown\n")
	assert.Contains(t, buf.String(), "built by: test\n")
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		OutputFormatFunc: func() string { return "json" },
		StdoutFunc:       func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var info Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersionDefaultsToJSONWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewCommand(&application.Mock{
		VersionFunc: func() string { return "1.2.3" },
		StdoutFunc:  func() io.Writer { return &buf },
	})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var info Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
}
