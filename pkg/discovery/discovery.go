// Package discovery turns OpenAPI documents into the list of endpoints a smoke
// run will probe.
//
// A ServiceSpec is built per spec file: the owning service is derived from the
// file path, the base URL from the document's first server (made dialable by a
// Resolver when it is relative), and the endpoints from every GET operation
// that can be called without synthesized input.
package discovery

import (
	"github.com/agentstation/smoketest/pkg/openapi"
)

// EndpointDescriptor identifies one testable GET endpoint.
// Path never contains a template placeholder.
type EndpointDescriptor struct {
	Path        string `json:"path" yaml:"path"`
	OperationID string `json:"operationId" yaml:"operationId"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// ServiceSpec aggregates the testable endpoints of one spec file.
type ServiceSpec struct {
	ServiceName string               `json:"serviceName" yaml:"serviceName"`
	BaseURL     string               `json:"baseUrl" yaml:"baseUrl"`
	DeclaredURL string               `json:"declaredUrl" yaml:"declaredUrl"`
	SpecFile    string               `json:"specFile" yaml:"specFile"`
	Endpoints   []EndpointDescriptor `json:"endpoints" yaml:"endpoints"`
}

// URL returns the absolute URL probed for endpoint.
func (s ServiceSpec) URL(endpoint EndpointDescriptor) string {
	return JoinURL(s.BaseURL, endpoint.Path)
}

// Stats summarizes a discovery pass.
type Stats struct {
	SpecFiles int `json:"specFiles" yaml:"specFiles"`
	Services  int `json:"services" yaml:"services"`
	Endpoints int `json:"endpoints" yaml:"endpoints"`
}

// FromDocument builds the ServiceSpec for a parsed document loaded from path.
func FromDocument(path string, doc *openapi.Document, resolver *Resolver) ServiceSpec {
	if resolver == nil {
		resolver = NewResolver()
	}

	service := ServiceName(path)
	declared := DeclaredServerURL(doc)

	return ServiceSpec{
		ServiceName: service,
		BaseURL:     resolver.Resolve(service, declared),
		DeclaredURL: declared,
		SpecFile:    path,
		Endpoints:   Extract(doc),
	}
}

// Build loads every file and returns the services that have at least one
// testable endpoint, in file order. The first unreadable or malformed file
// aborts the build.
func Build(files []string, resolver *Resolver) ([]ServiceSpec, Stats, error) {
	stats := Stats{SpecFiles: len(files)}

	specs := make([]ServiceSpec, 0, len(files))
	for _, file := range files {
		doc, err := openapi.LoadFile(file)
		if err != nil {
			return nil, stats, err
		}

		spec := FromDocument(file, doc, resolver)
		if len(spec.Endpoints) == 0 {
			continue
		}
		specs = append(specs, spec)
		stats.Endpoints += len(spec.Endpoints)
	}

	stats.Services = len(specs)
	return specs, stats, nil
}
