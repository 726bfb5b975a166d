package connectors

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

type DiscoveryOptions struct {
	Recursive      bool
	Extensions     []string // without the dot; defaults to csv
	MinSize        int64
	MaxSize        int64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
}

// DiscoverFiles lists data files under root, sorted by path.
func DiscoverFiles(root string, options DiscoveryOptions) ([]FileMeta, error) {
	// Validate root directory
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	exts := make(map[string]struct{})
	for _, ext := range options.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext != "" {
			exts["."+ext] = struct{}{}
		}
	}
	if len(exts) == 0 {
		exts[".csv"] = struct{}{}
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		// Skip directories if not recursive
		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}

		// Apply filters
		if options.MinSize > 0 && info.Size() < options.MinSize {
			return nil
		}
		if options.MaxSize > 0 && info.Size() > options.MaxSize {
			return nil
		}
		if !options.ModifiedAfter.IsZero() && info.ModTime().Before(options.ModifiedAfter) {
			return nil
		}
		if !options.ModifiedBefore.IsZero() && info.ModTime().After(options.ModifiedBefore) {
			return nil
		}

		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
