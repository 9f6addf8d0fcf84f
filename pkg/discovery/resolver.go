package discovery

import (
	"os"
	"strings"
	"unicode"

	"github.com/agentstation/smoketest/pkg/constants"
)

// legacyPort is a built-in override for services whose port variable does not
// follow the <SERVICE>_HOST_PORT convention.
type legacyPort struct {
	Env     string
	Default string
}

var legacyPorts = map[string]legacyPort{
	"portal-bff": {Env: "PORTAL_BFF_HOST_PORT", Default: "7777"},
	"directory":  {Env: "POLICYHOLDERS_HOST_PORT", Default: "8081"},
}

// Resolver turns declared server URLs into dialable base URLs.
type Resolver struct {
	ports  map[string]string
	getenv func(string) string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPorts sets explicit per-service ports. They take precedence over the environment.
func WithPorts(ports map[string]string) ResolverOption {
	return func(r *Resolver) {
		for service, port := range ports {
			r.ports[service] = port
		}
	}
}

// WithPort sets a single explicit service port.
func WithPort(service, port string) ResolverOption {
	return func(r *Resolver) {
		r.ports[service] = port
	}
}

// WithGetenv replaces the environment lookup, os.Getenv by default.
func WithGetenv(getenv func(string) string) ResolverOption {
	return func(r *Resolver) {
		if getenv != nil {
			r.getenv = getenv
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		ports:  make(map[string]string),
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the base URL for service. Absolute URLs are returned
// verbatim; empty, "/" and path-only URLs become http://localhost:<port>.
func (r *Resolver) Resolve(service, declared string) string {
	if !IsRelative(declared) {
		return declared
	}
	return "http://" + constants.LocalHost + ":" + r.Port(service)
}

// Port returns the local port for service. Precedence: explicit ports and
// legacy variables, then <SERVICE>_HOST_PORT, then the built-in fallback.
func (r *Resolver) Port(service string) string {
	if port := r.ports[service]; port != "" {
		return port
	}

	legacy, isLegacy := legacyPorts[service]
	if isLegacy {
		if port := r.getenv(legacy.Env); port != "" {
			return port
		}
	}

	if port := r.getenv(EnvVar(service)); port != "" {
		return port
	}

	if isLegacy {
		return legacy.Default
	}
	return constants.DefaultPort
}

// JoinURL appends path to base, dropping one slash when base ends with "/"
// and path starts with one.
func JoinURL(base, path string) string {
	if strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/") {
		return base + path[1:]
	}
	return base + path
}

// IsRelative reports whether a declared server URL has no origin of its own.
func IsRelative(declared string) bool {
	return declared == "" || strings.HasPrefix(declared, "/")
}

// EnvVar returns the port variable for service, e.g. portal-bff -> PORTAL_BFF_HOST_PORT.
func EnvVar(service string) string {
	var b strings.Builder
	for _, r := range service {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString(constants.HostPortSuffix)
	return b.String()
}
