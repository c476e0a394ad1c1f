package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a table from a YAML file holding a sequence of
// {frequency, window} mappings.
func LoadYAML(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tuning: read %s: %w", path, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("tuning: parse %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("tuning: no entries in %s", path)
	}

	return Table(entries), nil
}

// SaveYAML writes the table as a YAML sequence.
func (t Table) SaveYAML(path string) error {
	data, err := yaml.Marshal([]Entry(t))
	if err != nil {
		return fmt.Errorf("tuning: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tuning: write %s: %w", path, err)
	}

	return nil
}
