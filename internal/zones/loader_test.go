package zones_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/rune-race/internal/zones"
)

const tinyYAML = `name: tiny
width: 3
height: 2
layers:
  - name: layer01
    data: [0, 1, 0,
           2, 2, 2]
`

const tinyTiled = `{
  "width": 3, "height": 2,
  "properties": [{"name": "name", "type": "string", "value": "tiled-tiny"}],
  "layers": [
    {"name": "layer01", "type": "tilelayer", "data": [0, 0, 0, 1, 1, 1]},
    {"name": "spawns", "type": "objectgroup"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestEmbeddedZones(t *testing.T) {
	l := zones.Embedded()

	all, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(all) != zones.ZoneCount {
		t.Fatalf("expected %d embedded zones, got %d", zones.ZoneCount, len(all))
	}

	for level := 1; level <= zones.ZoneCount; level++ {
		z, err := l.Zone(level)
		if err != nil {
			t.Fatalf("Zone(%d) failed: %v", level, err)
		}
		if z.Width != all[0].Width || z.Height != all[0].Height {
			t.Errorf("zone %s is %dx%d, embedded zones must share a size", z.Name, z.Width, z.Height)
		}
		if _, err := z.Layer(zones.DefaultLayer); err != nil {
			t.Errorf("zone %s: %v", z.Name, err)
		}
	}
}

func TestLoaderFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", tinyYAML)
	writeFile(t, dir, "level-9.json", tinyTiled)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "broken.yaml", "name: [")

	all, err := zones.NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 zones (invalid and unsupported files skipped), got %d", len(all))
	}

	tiled, err := zones.NewLoader(dir).LoadByName("tiled-tiny")
	if err != nil {
		t.Fatalf("LoadByName() failed: %v", err)
	}
	data, _ := tiled.Layer(zones.DefaultLayer)
	if data[3] != 1 || data[0] != 0 {
		t.Errorf("unexpected tiled data %v", data)
	}
	if _, ok := tiled.Layers["spawns"]; ok {
		t.Error("object layers should be skipped")
	}
}

func TestLoaderNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", tinyYAML)

	_, err := zones.NewLoader(dir).Zone(2)
	if !errors.Is(err, zones.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecodeRejectsBadSize(t *testing.T) {
	bad := `name: bad
width: 3
height: 3
layers:
  - name: layer01
    data: [0, 0, 0]
`
	_, err := zones.Decode("bad.yaml", []byte(bad))
	if !errors.Is(err, zones.ErrBadZone) {
		t.Errorf("expected ErrBadZone, got %v", err)
	}
}

func TestDecodeNamesFromFile(t *testing.T) {
	z, err := zones.Decode("dir/level-2.yml", []byte("width: 1\nheight: 1\nlayers:\n  - name: layer01\n    data: [1]\n"))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if z.Name != "level-2" {
		t.Errorf("expected name from file, got %q", z.Name)
	}
}

type mapSource map[int]zones.Zone

func (m mapSource) Zone(level int) (zones.Zone, error) {
	z, ok := m[level]
	if !ok {
		return zones.Zone{}, zones.ErrNotFound
	}
	return z, nil
}

func TestCollectKeepsOrder(t *testing.T) {
	src := mapSource{
		1: {Name: "a"},
		2: {Name: "b"},
		3: {Name: "c"},
	}
	got, err := zones.Collect(src, []int{2, 3, 1})
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if got[0].Name != "b" || got[1].Name != "c" || got[2].Name != "a" {
		t.Errorf("Collect() order = %v", got)
	}

	if _, err := zones.Collect(src, []int{4}); !errors.Is(err, zones.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
