// Package config provides configuration management for the ESXi report tool.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"esxi-report/internal/model"
)

// LoadScopeFile reads a host selector from the specified YAML file.
// The file lists hosts, clusters and datacenters; the usual selector
// precedence (hosts > clusters > datacenters) applies afterwards.
func LoadScopeFile(scopePath string) (*model.HostSelector, error) {
	if scopePath == "" {
		return nil, fmt.Errorf("scope file path is required")
	}

	// Check if file exists
	if _, err := os.Stat(scopePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("scope file not found: %s", scopePath)
	}

	// Read file content
	data, err := os.ReadFile(scopePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scope file: %w", err)
	}

	// Parse YAML
	var selector model.HostSelector
	if err := yaml.Unmarshal(data, &selector); err != nil {
		return nil, fmt.Errorf("failed to parse scope file: %w", err)
	}

	if selector.IsEmpty() {
		return nil, fmt.Errorf("no scope defined in file: %s", scopePath)
	}

	return &selector, nil
}
