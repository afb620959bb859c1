// ABOUTME: Settings loading with global + project config deep merge
// ABOUTME: YAML files; CROPDOC_ENDPOINT env var overrides both layers

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvEndpoint overrides the endpoint from the environment when set.
const EnvEndpoint = "CROPDOC_ENDPOINT"

// Settings holds the merged configuration for the cropdoc CLI.
type Settings struct {
	Endpoint       string `yaml:"endpoint,omitempty"`
	Tool           string `yaml:"tool,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	MaxImageDim    int    `yaml:"max_image_dim,omitempty"`
	MaxImageBytes  int    `yaml:"max_image_bytes,omitempty"`
	DefaultCrop    string `yaml:"default_crop,omitempty"`
	CatalogPath    string `yaml:"catalog_path,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Tool:           "diagnose_plant_health",
		TimeoutSeconds: 45,
		MaxImageDim:    1280,
		MaxImageBytes:  2 << 20,
	}
}

// Timeout returns the timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Load reads and merges defaults, global, and project-local settings, in
// that order; later layers win field by field. A missing file is not an
// error, a malformed one is.
func Load(projectRoot string) (*Settings, error) {
	merged := Defaults()

	for _, path := range []string{GlobalConfigFile(), ProjectConfigFile(projectRoot)} {
		layer, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		merge(merged, layer)
	}

	if ep := os.Getenv(EnvEndpoint); ep != "" {
		merged.Endpoint = ep
	}
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns nil when the file does
// not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays non-zero fields of layer onto dst.
func merge(dst, layer *Settings) {
	if layer == nil {
		return
	}
	if layer.Endpoint != "" {
		dst.Endpoint = layer.Endpoint
	}
	if layer.Tool != "" {
		dst.Tool = layer.Tool
	}
	if layer.TimeoutSeconds != 0 {
		dst.TimeoutSeconds = layer.TimeoutSeconds
	}
	if layer.MaxImageDim != 0 {
		dst.MaxImageDim = layer.MaxImageDim
	}
	if layer.MaxImageBytes != 0 {
		dst.MaxImageBytes = layer.MaxImageBytes
	}
	if layer.DefaultCrop != "" {
		dst.DefaultCrop = layer.DefaultCrop
	}
	if layer.CatalogPath != "" {
		dst.CatalogPath = layer.CatalogPath
	}
}
