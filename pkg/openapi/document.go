// Package openapi loads OpenAPI documents from disk.
//
// Only the parts of a document a smoke test needs are decoded: servers,
// paths (kept in document order), GET parameters and local parameter
// components. Everything else is ignored, so partially specified documents
// still load as long as they are valid YAML.
package openapi

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Document is the subset of an OpenAPI (or Swagger 2.0) document used for discovery.
type Document struct {
	OpenAPI    string     `yaml:"openapi,omitempty" json:"openapi,omitempty"`
	Swagger    string     `yaml:"swagger,omitempty" json:"swagger,omitempty"`
	Info       Info       `yaml:"info,omitempty" json:"info,omitempty"`
	Servers    []Server   `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths      Paths      `yaml:"paths,omitempty" json:"paths,omitempty"`
	Components Components `yaml:"components,omitempty" json:"components,omitempty"`
}

// Info is the document's info block.
type Info struct {
	Title   string `yaml:"title,omitempty" json:"title,omitempty"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Server is one entry of the servers list.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Components holds reusable definitions; only parameters are decoded.
type Components struct {
	Parameters map[string]Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// PathItem holds the operations declared for one path.
type PathItem struct {
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Get        *Operation  `yaml:"get,omitempty" json:"get,omitempty"`
}

// Operation is a single HTTP operation.
type Operation struct {
	OperationID string      `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string      `yaml:"summary,omitempty" json:"summary,omitempty"`
	Tags        []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	Parameters  []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Parameter is an operation or path-level parameter, or a $ref to one.
type Parameter struct {
	Ref      string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	In       string `yaml:"in,omitempty" json:"in,omitempty"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// PathEntry pairs a path template with its item.
type PathEntry struct {
	Path string
	Item PathItem
}

// Paths is the paths mapping in the order the document declares it.
type Paths []PathEntry

// UnmarshalYAML decodes the paths mapping while preserving key order.
func (p *Paths) UnmarshalYAML(data []byte) error {
	var ordered yaml.MapSlice
	if err := yaml.Unmarshal(data, &ordered); err != nil {
		return err
	}

	paths := make(Paths, 0, len(ordered))
	for _, entry := range ordered {
		path := fmt.Sprint(entry.Key)

		var item PathItem
		if entry.Value != nil {
			raw, err := yaml.Marshal(entry.Value)
			if err != nil {
				return fmt.Errorf("path %s: %w", path, err)
			}
			if err := yaml.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("path %s: %w", path, err)
			}
		}
		paths = append(paths, PathEntry{Path: path, Item: item})
	}

	*p = paths
	return nil
}

// Lookup returns the item declared for path.
func (p Paths) Lookup(path string) (PathItem, bool) {
	for _, entry := range p {
		if entry.Path == path {
			return entry.Item, true
		}
	}
	return PathItem{}, false
}

// Version returns the declared openapi or swagger version.
func (d *Document) Version() string {
	if d.OpenAPI != "" {
		return d.OpenAPI
	}
	return d.Swagger
}

const componentParameterPrefix = "#/components/parameters/"

// ResolveParameter follows a local #/components/parameters reference.
// Unresolvable references are returned unchanged.
func (d *Document) ResolveParameter(p Parameter) Parameter {
	if p.Ref == "" || !strings.HasPrefix(p.Ref, componentParameterPrefix) {
		return p
	}
	name := strings.TrimPrefix(p.Ref, componentParameterPrefix)
	if resolved, ok := d.Components.Parameters[name]; ok {
		return resolved
	}
	return p
}
