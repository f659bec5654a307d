// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files
// ending with any of the given extensions. It returns their full paths in
// lexical order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if slices.ContainsFunc(extensions, func(ext string) bool { return strings.HasSuffix(d.Name(), ext) }) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ResolveSweepFile returns path unchanged when it names a file. When it names
// a directory, the directory must contain exactly one file with one of the
// given extensions.
func ResolveSweepFile(path string, extensions ...string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := FindFilesByExtension(path, extensions...)
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", path, err)
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no sweep file (%s) found in %s", strings.Join(extensions, ", "), path)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("found %d sweep files in %s, expected exactly one: %s", len(files), path, strings.Join(files, ", "))
	}
}
