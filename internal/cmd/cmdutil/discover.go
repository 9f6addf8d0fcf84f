package cmdutil

import (
	"context"

	"github.com/agentstation/smoketest/pkg/discovery"
	"github.com/agentstation/smoketest/pkg/logging"
	"github.com/agentstation/smoketest/pkg/openapi"
)

// Discovery is the result of scanning a root for services.
type Discovery struct {
	Files    []string
	Services []discovery.ServiceSpec
	Stats    discovery.Stats
}

// Discover finds the spec files under root and builds the testable services.
// No matching files is not an error; Files is then empty.
func Discover(ctx context.Context, root, pattern string, resolver *discovery.Resolver) (*Discovery, error) {
	logger := logging.FromContext(ctx)

	files, err := openapi.Discover(root, pattern)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("root", root).Str("pattern", pattern).Int("files", len(files)).Msg("Discovered spec files")

	result := &Discovery{Files: files, Stats: discovery.Stats{SpecFiles: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	services, stats, err := discovery.Build(files, resolver)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		serviceCtx := logging.WithSpecFile(logging.WithService(ctx, s.ServiceName), s.SpecFile)
		logging.FromContext(serviceCtx).Debug().
			Str("base_url", s.BaseURL).
			Int("endpoints", len(s.Endpoints)).
			Msg("Resolved service")
	}

	result.Services = services
	result.Stats = stats
	return result, nil
}
