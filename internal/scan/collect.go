// Package scan finds audio files under a directory and processes them on a fixed pool of workers.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// AllExtensions matches every file.
const AllExtensions = "*"

var ErrNotDirectory = errors.New("not a directory")

// Filter matches file names by extension, case-insensitively.
type Filter struct {
	all        bool
	extensions []string
}

// ParseFilter accepts a comma-separated list of extensions, with or without the leading dot.
// "*" (alone or in the list) and the empty string match everything.
func ParseFilter(spec string) Filter {
	var filter Filter

	for ext := range strings.SplitSeq(spec, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}

		if ext == AllExtensions {
			return Filter{all: true}
		}

		ext = "." + strings.TrimPrefix(ext, ".")
		if !slices.Contains(filter.extensions, ext) {
			filter.extensions = append(filter.extensions, ext)
		}
	}

	if len(filter.extensions) == 0 {
		filter.all = true
	}

	return filter
}

// Match reports whether name passes the filter.
func (f Filter) Match(name string) bool {
	if f.all {
		return true
	}

	return slices.Contains(f.extensions, strings.ToLower(filepath.Ext(name)))
}

func (f Filter) String() string {
	if f.all {
		return AllExtensions
	}

	return strings.Join(f.extensions, ",")
}

// Collect walks root recursively and returns the matching regular files in sorted order.
func Collect(root string, filter Filter) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", root, ErrNotDirectory)
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if filter.Match(d.Name()) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
