package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML rule file from the given path.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a RuleFile.
func Parse(data []byte) (*RuleFile, error) {
	var rf RuleFile

	err := yaml.Unmarshal(data, &rf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule YAML: %w", err)
	}

	applyDefaults(&rf)

	return &rf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(rf *RuleFile) {
	if rf.Version == "" {
		rf.Version = "1"
	}
}
