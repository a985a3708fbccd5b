package mapscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chosenoffset.com/tilecomp/internal/tilemap"
)

// MapEntry represents a map file discovered under a directory
type MapEntry struct {
	Name string // Map name from the file
	Path string // File path
	Map  *tilemap.Map
}

// Skipped records a JSON file that was not a loadable map
type Skipped struct {
	Path string
	Err  error
}

// ScanDirectory walks dir for map files. Hidden directories are skipped and
// JSON files that fail to load are reported in the second result.
func ScanDirectory(dir string) ([]MapEntry, []Skipped, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var maps []MapEntry
	var skipped []Skipped

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(strings.ToLower(name), ".json") {
			return nil
		}

		m, err := tilemap.LoadMap(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Err: err})
			return nil
		}
		maps = append(maps, MapEntry{Name: m.Name, Path: path, Map: m})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Slice(maps, func(i, j int) bool { return maps[i].Path < maps[j].Path })
	return maps, skipped, nil
}
