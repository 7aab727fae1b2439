package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Default returns the catalog shipped with the binary.
func Default() (*entity.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a YAML catalog from path, or the built-in one when path is empty.
func Load(path string) (*entity.Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*entity.Catalog, error) {
	var c entity.Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(c.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}

	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.ID == "" {
			return nil, errors.New("catalog product without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate catalog product %q", p.ID)
		}
		seen[p.ID] = true
	}
	return &c, nil
}
