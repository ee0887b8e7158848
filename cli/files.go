package cli

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/abiiranathan/pdfview/viewer"
)

// FindFiles walks dir and returns the regular files matching the first of
// types. Hidden files and directories are skipped.
func FindFiles(dir string, types []viewer.FileType) ([]string, error) {
	pattern := "*"
	if len(types) > 0 {
		pattern = types[0].Pattern
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip the directory itself
		if path == dir {
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		ok, err := filepath.Match(pattern, strings.ToLower(d.Name()))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}
