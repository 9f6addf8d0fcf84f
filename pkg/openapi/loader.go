package openapi

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/errors"
)

// Discover returns the spec files under root matching pattern, sorted.
// An empty pattern means constants.DefaultSpecPattern.
func Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = constants.DefaultSpecPattern
	}

	matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, errors.WrapIO("glob", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile reads and parses the spec file at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML (or JSON) OpenAPI document. path is only used for errors.
func Parse(data []byte, path string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewParseError("yaml", path, yaml.FormatError(err, false, false), err)
	}
	return &doc, nil
}
