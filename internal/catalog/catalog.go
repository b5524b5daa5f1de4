package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// RGBRange is an axis-aligned box in RGB space. A color is contained
// when every channel lies in [Low, High] inclusive.
type RGBRange struct {
	Low  [3]uint8 `yaml:"low"`
	High [3]uint8 `yaml:"high"`
}

// Contains reports whether rgb falls inside the box.
func (r RGBRange) Contains(rgb [3]uint8) bool {
	for i := 0; i < 3; i++ {
		if rgb[i] < r.Low[i] || rgb[i] > r.High[i] {
			return false
		}
	}
	return true
}

// Center returns the box center per channel.
func (r RGBRange) Center() [3]float64 {
	return [3]float64{
		(float64(r.Low[0]) + float64(r.High[0])) / 2,
		(float64(r.Low[1]) + float64(r.High[1])) / 2,
		(float64(r.Low[2]) + float64(r.High[2])) / 2,
	}
}

// Material is one catalog entry: a material name with the color boxes
// that identify it and its descriptive vocabulary.
type Material struct {
	Name       string            `yaml:"name"`
	Ranges     []RGBRange        `yaml:"ranges"`
	Textures   []string          `yaml:"textures"`
	Properties map[string]string `yaml:"properties"`
}

// Phase is one construction phase with its planning vocabulary.
type Phase struct {
	Name          string   `yaml:"name"`
	DurationWeeks int      `yaml:"duration_weeks"`
	Planned       []string `yaml:"planned"`
}

// Catalog is the process-wide reference data for classification.
//
// It is loaded once at startup and must never be mutated afterwards;
// concurrent analyses share one instance without locking. Material order
// matters: it is the tie-break order for ambiguous color matches.
type Catalog struct {
	Materials []Material `yaml:"materials"`
	Locations []string   `yaml:"locations"`
	Phases    []Phase    `yaml:"phases"`
}

// Default parses the embedded catalog. The embedded data is validated by
// tests, so a parse failure here is a programming error.
func Default() *Catalog {
	cat, err := parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return cat
}

// Load reads a catalog from a YAML file, validating it before use.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return cat, nil
}

func parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) validate() error {
	if len(c.Materials) == 0 {
		return fmt.Errorf("catalog has no materials")
	}
	seen := make(map[string]bool, len(c.Materials))
	for _, m := range c.Materials {
		if m.Name == "" {
			return fmt.Errorf("material with empty name")
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate material %q", m.Name)
		}
		seen[m.Name] = true
		if len(m.Ranges) == 0 {
			return fmt.Errorf("material %q has no color ranges", m.Name)
		}
		for _, r := range m.Ranges {
			for i := 0; i < 3; i++ {
				if r.Low[i] > r.High[i] {
					return fmt.Errorf("material %q has inverted range on channel %d", m.Name, i)
				}
			}
		}
	}
	if len(c.Locations) == 0 {
		return fmt.Errorf("catalog has no location labels")
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("catalog has no phases")
	}
	return nil
}

// FindMaterial returns the entry with the given name, or nil.
func (c *Catalog) FindMaterial(name string) *Material {
	for i := range c.Materials {
		if c.Materials[i].Name == name {
			return &c.Materials[i]
		}
	}
	return nil
}

// FindPhase returns the phase with the given name, or nil.
func (c *Catalog) FindPhase(name string) *Phase {
	for i := range c.Phases {
		if c.Phases[i].Name == name {
			return &c.Phases[i]
		}
	}
	return nil
}

// LocationLabel returns the label for a dominant-color rank; ranks past
// the end of the list reuse the last label.
func (c *Catalog) LocationLabel(rank int) string {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(c.Locations) {
		rank = len(c.Locations) - 1
	}
	return c.Locations[rank]
}
