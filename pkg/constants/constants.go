// Package constants provides shared constants used throughout the smoketest codebase.
// This includes timeouts, default ports, discovery patterns, file permissions and
// other values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultProbeTimeout bounds a single smoke-test GET request
	DefaultProbeTimeout = 5000 * time.Millisecond
)

// Discovery constants describe where OpenAPI specs live inside a repository
const (
	// ServicesDir is the directory segment that precedes each service directory
	ServicesDir = "microservices"

	// SpecDir is the per-service directory holding the OpenAPI documents
	SpecDir = "openapi"

	// DefaultSpecPattern is the glob, relative to the root, matching spec files
	DefaultSpecPattern = ServicesDir + "/*/" + SpecDir + "/*.yaml"

	// UnknownService is used when a spec file is not below ServicesDir
	UnknownService = "unknown"
)

// Network constants
const (
	// DefaultServerURL is used when a spec declares no servers at all
	DefaultServerURL = "http://localhost:8080"

	// LocalHost is the host substituted for relative server URLs
	LocalHost = "localhost"

	// DefaultPort is the last-resort port for relative server URLs
	DefaultPort = "8080"

	// HostPortSuffix is appended to the normalized service name to form the
	// per-service port variable, e.g. PORTAL_BFF_HOST_PORT
	HostPortSuffix = "_HOST_PORT"

	// AcceptHeader is sent with every probe
	AcceptHeader = "application/json"

	// MaxDrainBytes limits how much of a response body is read before closing
	MaxDrainBytes = 1 << 20
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Environment and config file names
const (
	// EnvFile is the dotenv file read from the root directory
	EnvFile = ".env"

	// EnvLocalFile overrides nothing already set but is read after EnvFile
	EnvLocalFile = ".env.local"

	// ConfigName is the viper config name (without extension)
	ConfigName = ".smoketest"

	// EnvPrefix prefixes environment variables bound to config keys
	EnvPrefix = "SMOKETEST"
)
