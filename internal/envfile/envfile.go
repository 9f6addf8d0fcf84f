// Package envfile loads dotenv files from the root of the scanned repository.
package envfile

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/errors"
)

// Files lists the dotenv files read from the root, in load order.
var Files = []string{constants.EnvFile, constants.EnvLocalFile}

// Load reads Files from root into the process environment. A variable that
// is already set to a non-empty value is never overridden, so the first file
// to set a key wins; set-but-empty variables are filled from the files.
// Missing files are skipped. It returns the files that were loaded.
func Load(root string) ([]string, error) {
	var loaded []string
	for _, name := range Files {
		path := filepath.Join(root, name)
		values, err := Read(path)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return loaded, err
		}

		for key, value := range values {
			if os.Getenv(key) != "" {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return loaded, errors.NewConfigError("envfile", "failed to set "+key+" from "+path, err)
			}
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// Read parses the dotenv file at path without touching the environment.
func Read(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("env file", path)
		}
		return nil, errors.NewConfigError("envfile", "failed to read "+path, err)
	}
	return values, nil
}
