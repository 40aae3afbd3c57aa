package lesson

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is checked when no custom catalog is given
const DefaultPath = "lessons.yaml"

//go:embed lessons.yaml
var embedded []byte

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("lesson parse: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from disk
func LoadFile(p string) (*Catalog, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("lesson read %s: %w", p, err)
	}
	return Parse(data)
}

// Embedded returns the built-in catalog
func Embedded() (*Catalog, error) {
	return Parse(embedded)
}

// LoadAuto loads with priority: customPath > DefaultPath > embedded
func LoadAuto(customPath string) (*Catalog, error) {
	if customPath != "" {
		return LoadFile(customPath)
	}
	if fileExists(DefaultPath) {
		return LoadFile(DefaultPath)
	}
	return Embedded()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
