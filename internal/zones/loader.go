package zones

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/rune-race/internal/zones/formats"
)

//go:embed defaults/*.yaml
var defaultZones embed.FS

// Loader handles loading zones from a file tree.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: root}
}

// Embedded returns a loader over the zones compiled into the binary.
func Embedded() *Loader {
	sub, err := fs.Sub(defaultZones, "defaults")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return &Loader{fsys: sub, root: "<embedded>"}
}

// LoadAll scans the tree and loads every zone file with a registered
// extension. Files that fail to parse are skipped. Zones are sorted by name.
func (l *Loader) LoadAll() ([]Zone, error) {
	var out []Zone

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !formats.Supported(path.Ext(p)) {
			return nil
		}

		z, err := l.LoadFile(p)
		if err != nil {
			return nil
		}
		out = append(out, z)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.root, err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// LoadFile loads a single zone file relative to the loader root.
func (l *Loader) LoadFile(p string) (Zone, error) {
	data, err := fs.ReadFile(l.fsys, filepath.ToSlash(p))
	if err != nil {
		return Zone{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	return Decode(p, data)
}

// Decode parses zone bytes using the parser registered for the file
// extension of name. A zone without a name takes the file's base name.
func Decode(name string, data []byte) (Zone, error) {
	ext := strings.ToLower(path.Ext(name))
	parsed, err := formats.Parse(data, ext)
	if err != nil {
		return Zone{}, fmt.Errorf("parsing file %s: %w", name, err)
	}

	z := Zone{
		Name:   parsed.Name,
		Width:  parsed.Width,
		Height: parsed.Height,
		Layers: parsed.Layers,
	}
	if z.Name == "" {
		z.Name = strings.TrimSuffix(path.Base(filepath.ToSlash(name)), path.Ext(name))
	}
	if err := z.Validate(); err != nil {
		return Zone{}, err
	}
	return z, nil
}

// LoadByName loads a specific zone by name.
func (l *Loader) LoadByName(name string) (Zone, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Zone{}, err
	}
	for _, z := range all {
		if z.Name == name {
			return z, nil
		}
	}
	return Zone{}, fmt.Errorf("%w: %s in %s", ErrNotFound, name, l.root)
}

// Zone implements Source using the level-N naming convention.
func (l *Loader) Zone(level int) (Zone, error) {
	return l.LoadByName(LevelName(level))
}

// Root returns where the loader reads zones from.
func (l *Loader) Root() string {
	return l.root
}
