package discovery

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/openapi"
)

// ServiceName returns the directory name that follows the microservices
// segment of path, or "unknown".
func ServiceName(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if part != constants.ServicesDir {
			continue
		}
		if i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1]
		}
		break
	}
	return constants.UnknownService
}

// DeclaredServerURL returns servers[0].url, or the default local server
// when the document declares no servers.
func DeclaredServerURL(doc *openapi.Document) string {
	if doc == nil || len(doc.Servers) == 0 {
		return constants.DefaultServerURL
	}
	return doc.Servers[0].URL
}

// Extract returns the GET endpoints of doc that can be probed as-is, in
// document order. Paths with placeholders, paths without a GET operation and
// operations with a required non-query parameter are skipped.
func Extract(doc *openapi.Document) []EndpointDescriptor {
	if doc == nil {
		return nil
	}

	var endpoints []EndpointDescriptor
	for _, entry := range doc.Paths {
		if strings.Contains(entry.Path, "{") {
			continue
		}

		get := entry.Item.Get
		if get == nil {
			continue
		}

		if hasRequiredInput(doc, entry.Item.Parameters) || hasRequiredInput(doc, get.Parameters) {
			continue
		}

		operationID := get.OperationID
		if operationID == "" {
			operationID = entry.Path
		}

		endpoints = append(endpoints, EndpointDescriptor{
			Path:        entry.Path,
			OperationID: operationID,
			Summary:     get.Summary,
		})
	}
	return endpoints
}

// hasRequiredInput reports whether any parameter must be supplied outside the query string.
func hasRequiredInput(doc *openapi.Document, params []openapi.Parameter) bool {
	for _, p := range params {
		p = doc.ResolveParameter(p)
		if p.Required && p.In != "query" {
			return true
		}
	}
	return false
}
