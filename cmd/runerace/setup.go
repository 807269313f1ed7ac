package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rune-race/internal/config"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/storage"
	"github.com/vovakirdan/rune-race/internal/zones"
)

// openZones returns the zone source named by --zones and a function
// releasing it.
func openZones(path string) (zones.Source, func(), error) {
	switch {
	case path == "":
		return zones.Embedded(), func() {}, nil
	case strings.HasSuffix(path, ".db"):
		store, err := storage.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return zones.NewLoader(path), func() {}, nil
	}
}

// buildCourse assembles the course for level from the configured zones.
func buildCourse(cfg config.RaceConfig, level int) (*course.Course, error) {
	src, release, err := openZones(flagZones)
	if err != nil {
		return nil, err
	}
	defer release()
	return course.BuildLevel(src, level, cfg.CourseOptions())
}

// newLogger returns a logger writing to --log, or to stderr when
// toStderr is set and no file was given. Otherwise logs are discarded,
// since a full-screen view owns the terminal.
func newLogger(prefix string, toStderr bool) (*log.Logger, func()) {
	var w io.Writer = io.Discard
	closer := func() {}

	switch {
	case flagLogPath != "":
		if dir := filepath.Dir(flagLogPath); dir != "" {
			//nolint:errcheck // OpenFile reports the real problem
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fail("opening log file", err)
		}
		w, closer = f, func() { f.Close() }
	case toStderr:
		w = os.Stderr
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	}), closer
}
