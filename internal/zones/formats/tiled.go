package formats

import (
	"encoding/json"
	"fmt"
)

// tiledMap is the subset of the Tiled JSON map format the course uses.
type tiledMap struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Layers []tiledLayer `json:"layers"`
	Props  []tiledProp  `json:"properties"`
}

type tiledLayer struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data []int  `json:"data"`
}

type tiledProp struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ParseTiled parses a Tiled JSON map. Only tile layers are kept; object
// and image layers are ignored. The zone name comes from a "name" map
// property when present.
func ParseTiled(data []byte) (Zone, error) {
	var tm tiledMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return Zone{}, fmt.Errorf("tiled unmarshal: %w", err)
	}

	zone := Zone{
		Width:  tm.Width,
		Height: tm.Height,
		Layers: make(map[string][]int, len(tm.Layers)),
	}
	for _, p := range tm.Props {
		if s, ok := p.Value.(string); ok && p.Name == "name" {
			zone.Name = s
		}
	}
	for _, l := range tm.Layers {
		if l.Type != "" && l.Type != "tilelayer" {
			continue
		}
		zone.Layers[l.Name] = l.Data
	}
	return zone, nil
}

func init() {
	Register(ParseTiled, ".json", ".tmj")
}
