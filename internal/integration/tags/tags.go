// Package tags identifies audio containers and reads their basic metadata with dhowden/tag.
package tags

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/farcloser/primordium/fault"
)

// Info is what the report records about a file besides its analysis.
type Info struct {
	FileType string `json:"file_type"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	// Lossless is true for lossless containers. A lossy label on such a file suggests a transcode.
	Lossless bool `json:"lossless"`
}

//nolint:gochecknoglobals // lookup tables, effectively const
var (
	losslessTypes = map[tag.FileType]bool{
		tag.FLAC: true,
		tag.ALAC: true,
		tag.DSF:  true,
	}

	// Containers dhowden/tag does not read.
	losslessExtensions = map[string]bool{
		".flac": true,
		".wav":  true,
		".aif":  true,
		".aiff": true,
		".ape":  true,
		".wv":   true,
		".dsf":  true,
	}
)

// Inspect reads the tags of path. Files without readable tags are still identified by extension.
func Inspect(path string) (*Info, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	return inspect(file, path), nil
}

func inspect(input io.ReadSeeker, path string) *Info {
	metadata, err := tag.ReadFrom(input)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			slog.Debug("tags.Inspect", "path", path, "error", err)
		}

		return FromMetadata(nil, path)
	}

	return FromMetadata(metadata, path)
}

// FromMetadata builds Info from parsed tags. metadata may be nil.
func FromMetadata(metadata tag.Metadata, path string) *Info {
	ext := strings.ToLower(filepath.Ext(path))

	info := &Info{
		FileType: strings.ToUpper(strings.TrimPrefix(ext, ".")),
		Lossless: losslessExtensions[ext],
	}

	if metadata == nil {
		return info
	}

	if fileType := metadata.FileType(); fileType != tag.UnknownFileType {
		info.FileType = string(fileType)
		info.Lossless = losslessTypes[fileType]
	}

	info.Title = metadata.Title()
	info.Artist = metadata.Artist()
	info.Album = metadata.Album()

	return info
}
