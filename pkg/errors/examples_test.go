package errors_test

import (
	"fmt"

	"github.com/agentstation/smoketest/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewProbeError("directory", "http://localhost:8081/policyholders", 503, "Service Unavailable", 3, 7)

	if errors.IsSmokeFailure(err) {
		fmt.Println("deployment gate closed")
	}

	// Output: deployment gate closed
}

// Example_parseError demonstrates classifying a malformed spec file.
func Example_parseError() {
	err := fmt.Errorf("loading specs: %w", errors.NewParseError("yaml", "microservices/incident/openapi/api.yaml", "unexpected key", nil))

	var parseErr *errors.ParseError
	if errors.As(err, &parseErr) {
		fmt.Println(parseErr.File)
	}

	// Output: microservices/incident/openapi/api.yaml
}
