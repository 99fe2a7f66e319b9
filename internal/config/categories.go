package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/charleschow/opp-adjust/internal/core/plays"
)

// CategoryFile is the on-disk list of statistic categories.
type CategoryFile struct {
	Categories []plays.Category `yaml:"categories"`
}

func LoadCategories(path string) ([]plays.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var f CategoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("parse categories: %s lists no categories", path)
	}

	seen := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		if c.Label == "" {
			return nil, fmt.Errorf("category %d: missing label", i)
		}
		if seen[c.Label] {
			return nil, fmt.Errorf("category %q listed twice", c.Label)
		}
		seen[c.Label] = true
	}
	return f.Categories, nil
}
