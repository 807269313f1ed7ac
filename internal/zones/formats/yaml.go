package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLZone represents the YAML structure for a zone file.
type YAMLZone struct {
	Name   string      `yaml:"name"`
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Layers []YAMLLayer `yaml:"layers"`
}

// YAMLLayer is one named tile layer, row-major.
type YAMLLayer struct {
	Name string `yaml:"name"`
	Data []int  `yaml:"data"`
}

// ParseYAML parses a YAML zone file.
func ParseYAML(data []byte) (Zone, error) {
	var yz YAMLZone
	if err := yaml.Unmarshal(data, &yz); err != nil {
		return Zone{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	zone := Zone{
		Name:   yz.Name,
		Width:  yz.Width,
		Height: yz.Height,
		Layers: make(map[string][]int, len(yz.Layers)),
	}
	for _, l := range yz.Layers {
		zone.Layers[l.Name] = l.Data
	}
	return zone, nil
}

func init() {
	Register(ParseYAML, ".yaml", ".yml")
}
