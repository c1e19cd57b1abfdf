// Package scan builds the initial photo candidate set from the filesystem.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/lyp/geotag/internal/format"
	"github.com/lyp/geotag/internal/metadata"
	"github.com/lyp/geotag/internal/model"
)

// FindPhotos returns every file under dir whose extension the format table
// knows, sorted by path. With recursive false only the top level is read.
func FindPhotos(dir string, recursive bool) ([]string, error) {
	supported := make(map[string]struct{})
	for _, ext := range format.SupportedExtensions() {
		supported[ext] = struct{}{}
	}

	var paths []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := supported[format.Ext(path)]; ok {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if _, ok := supported[format.Ext(path)]; ok {
				paths = append(paths, path)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// BuildRecords turns candidate paths into Pending records, probing each for
// existing GPS data through the metadata reader. Duplicate paths are
// suppressed.
func BuildRecords(paths []string, reader metadata.Reader) []*model.PhotoRecord {
	seen := make(map[string]struct{}, len(paths))
	records := make([]*model.PhotoRecord, 0, len(paths))

	for _, path := range paths {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		records = append(records, &model.PhotoRecord{
			Path:           path,
			FileName:       filepath.Base(path),
			HasExistingGPS: reader.HasGPS(path),
			State:          model.StatePending,
		})
	}
	return records
}
