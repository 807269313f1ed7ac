// Package zones loads the tile grids that a course is assembled from.
// A zone is one segment of the course; its tiles use the raw convention
// "0 = empty, n > 0 = tile index n-1".
package zones

import (
	"errors"
	"fmt"
)

// DefaultLayer is the layer holding collision tiles in every shipped zone.
const DefaultLayer = "layer01"

// ZoneCount is the number of zones a race is assembled from.
const ZoneCount = 3

var (
	// ErrBadZone is returned for zones whose layer data does not match their size.
	ErrBadZone = errors.New("zones: malformed zone")
	// ErrNotFound is returned when a source has no zone for a level.
	ErrNotFound = errors.New("zones: zone not found")
)

// Zone is one source tile grid. Zones are loaded once and never mutated.
type Zone struct {
	Name   string
	Width  int
	Height int
	Layers map[string][]int // row-major raw tile ids
}

// Layer returns the raw tile ids of the named layer.
func (z Zone) Layer(name string) ([]int, error) {
	data, ok := z.Layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no layer %q", ErrBadZone, z.Name, name)
	}
	if len(data) != z.Width*z.Height {
		return nil, fmt.Errorf("%w: %s layer %q has %d tiles, want %dx%d",
			ErrBadZone, z.Name, name, len(data), z.Width, z.Height)
	}
	return data, nil
}

// Validate checks the zone dimensions and every layer length.
func (z Zone) Validate() error {
	if z.Width <= 0 || z.Height <= 0 {
		return fmt.Errorf("%w: %s has size %dx%d", ErrBadZone, z.Name, z.Width, z.Height)
	}
	if len(z.Layers) == 0 {
		return fmt.Errorf("%w: %s has no layers", ErrBadZone, z.Name)
	}
	for name := range z.Layers {
		if _, err := z.Layer(name); err != nil {
			return err
		}
	}
	return nil
}

// LevelName returns the conventional zone name for a level number.
func LevelName(level int) string {
	return fmt.Sprintf("level-%d", level)
}

// Source hands out zones by level number (1..ZoneCount).
type Source interface {
	Zone(level int) (Zone, error)
}

// Collect fetches the zones for the given level order from src.
func Collect(src Source, order []int) ([]Zone, error) {
	out := make([]Zone, 0, len(order))
	for _, level := range order {
		z, err := src.Zone(level)
		if err != nil {
			return nil, fmt.Errorf("loading zone for level %d: %w", level, err)
		}
		out = append(out, z)
	}
	return out, nil
}
