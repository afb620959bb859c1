// ABOUTME: Standard filesystem paths for cropdoc configuration
// ABOUTME: Resolves ~/.cropdoc/ for global and .cropdoc.yaml for project-local

package config

import (
	"os"
	"path/filepath"
)

const globalDirName = ".cropdoc"

// GlobalDir returns the user-global config directory (~/.cropdoc/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// ProjectConfigFile returns the project-local config file path.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".cropdoc.yaml")
}
