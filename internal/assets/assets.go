// Package assets verifies that the files the launcher serves are in place
// before any listener is created.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MissingFileError names a required file that is absent from the serving root
type MissingFileError struct {
	File string
	Dir  string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required file %q not found in %s", e.File, e.Dir)
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}

// Entry describes one required file that was found
type Entry struct {
	Name string
	Path string
	Size int64
}

// Report is the result of a successful check, in the order files were given
type Report struct {
	Dir     string
	Entries []Entry
}

// Rows returns the report as table rows with a header
func (r Report) Rows() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Entries)+1)
	rows = append(rows, []interface{}{"FILE", "SIZE"})
	for _, e := range r.Entries {
		rows = append(rows, []interface{}{e.Name, fmt.Sprintf("%d B", e.Size)})
	}
	return rows
}

// Check stats every file under root and stops at the first one missing.
// A directory in place of a file counts as missing.
func Check(root string, files []string) (Report, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return Report{}, fmt.Errorf("resolve root %s: %w", root, err)
	}

	report := Report{Dir: dir, Entries: make([]Entry, 0, len(files))}
	for _, name := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return report, &MissingFileError{File: name, Dir: dir, Err: err}
			}
			return report, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return report, &MissingFileError{File: name, Dir: dir, Err: fmt.Errorf("%s is a directory", path)}
		}
		report.Entries = append(report.Entries, Entry{Name: name, Path: path, Size: info.Size()})
	}
	return report, nil
}
