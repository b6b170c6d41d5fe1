package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Load reads a deployment configuration from a JSON or YAML file, applies
// defaults and validates it. On validation failure the returned error is a
// *ValidationError carrying every issue; no partial configuration is
// returned.
func Load(path string) (*DeploymentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment config: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	return cfg, nil
}

// Parse decodes raw config bytes. ext selects the decoder (".json" for JSON,
// anything else is treated as YAML, which also accepts JSON input).
func Parse(data []byte, ext string) (*DeploymentConfig, error) {
	cfg := &DeploymentConfig{}

	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse deployment config: %w", err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse deployment config: %w", err)
	}
	return cfg, nil
}
