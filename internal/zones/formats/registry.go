// Package formats provides pluggable zone file parsers.
// Parsers register themselves by file extension in init() functions so the
// loader can discover them without a hardcoded switch.
package formats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Zone is a parsed zone file ready to be converted by the loader.
type Zone struct {
	Name   string
	Width  int
	Height int
	Layers map[string][]int
}

// Parser decodes one zone file.
type Parser func(data []byte) (Zone, error)

var (
	parsers = make(map[string]Parser)
	mu      sync.RWMutex
)

// Register adds a parser for the given extensions (with leading dot).
// Panics if an extension is already registered.
func Register(p Parser, exts ...string) {
	mu.Lock()
	defer mu.Unlock()

	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if _, exists := parsers[ext]; exists {
			panic(fmt.Sprintf("formats: extension %q already registered", ext))
		}
		parsers[ext] = p
	}
}

// Parse routes data to the parser registered for ext.
func Parse(data []byte, ext string) (Zone, error) {
	mu.RLock()
	p, ok := parsers[strings.ToLower(ext)]
	mu.RUnlock()

	if !ok {
		return Zone{}, fmt.Errorf("unsupported extension: %s", ext)
	}
	return p(data)
}

// Supported reports whether a parser exists for ext.
func Supported(ext string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := parsers[strings.ToLower(ext)]
	return ok
}

// Extensions returns the registered extensions, sorted.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(parsers))
	for ext := range parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
