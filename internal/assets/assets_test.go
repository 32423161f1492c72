package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

var requiredFiles = []string{"index.html", "style.css", "script.js"}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("content of "+name), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestCheckAllPresent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, requiredFiles...)

	report, err := Check(dir, requiredFiles)
	if err != nil {
		t.Fatalf("Expected check to pass, got %v", err)
	}

	if len(report.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(report.Entries))
	}

	for i, name := range requiredFiles {
		if report.Entries[i].Name != name {
			t.Errorf("Expected entry %d to be '%s', got '%s'", i, name, report.Entries[i].Name)
		}
		if report.Entries[i].Size != int64(len("content of "+name)) {
			t.Errorf("Unexpected size %d for %s", report.Entries[i].Size, name)
		}
	}
}

func TestCheckEachMissingFile(t *testing.T) {
	for _, missing := range requiredFiles {
		t.Run(missing, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range requiredFiles {
				if name != missing {
					writeFiles(t, dir, name)
				}
			}

			_, err := Check(dir, requiredFiles)

			var missingErr *MissingFileError
			if !errors.As(err, &missingErr) {
				t.Fatalf("Expected MissingFileError, got %v", err)
			}
			if missingErr.File != missing {
				t.Errorf("Expected missing file '%s', got '%s'", missing, missingErr.File)
			}

			abs, _ := filepath.Abs(dir)
			if missingErr.Dir != abs {
				t.Errorf("Expected dir '%s', got '%s'", abs, missingErr.Dir)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				t.Error("Expected error to wrap fs.ErrNotExist")
			}
		})
	}
}

func TestCheckReportsFirstMissing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "index.html")

	_, err := Check(dir, requiredFiles)

	var missingErr *MissingFileError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Expected MissingFileError, got %v", err)
	}
	if missingErr.File != "style.css" {
		t.Errorf("Expected 'style.css' to be reported first, got '%s'", missingErr.File)
	}
}

func TestCheckDirectoryIsMissing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "index.html", "script.js")
	if err := os.Mkdir(filepath.Join(dir, "style.css"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	_, err := Check(dir, requiredFiles)

	var missingErr *MissingFileError
	if !errors.As(err, &missingErr) || missingErr.File != "style.css" {
		t.Fatalf("Expected style.css reported missing, got %v", err)
	}
}

func TestCheckNestedFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pages/index.html")

	if _, err := Check(dir, []string{"pages/index.html"}); err != nil {
		t.Errorf("Expected nested file to be found, got %v", err)
	}
}

func TestMissingFileErrorMessage(t *testing.T) {
	err := &MissingFileError{File: "style.css", Dir: "/srv/wireworld"}
	want := `required file "style.css" not found in /srv/wireworld`

	if err.Error() != want {
		t.Errorf("Expected '%s', got '%s'", want, err.Error())
	}
}

func TestReportRows(t *testing.T) {
	report := Report{Entries: []Entry{{Name: "index.html", Size: 10}}}
	rows := report.Rows()

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "FILE" {
		t.Errorf("Expected header row, got %v", rows[0])
	}
	if rows[1][0] != "index.html" || rows[1][1] != "10 B" {
		t.Errorf("Unexpected row %v", rows[1])
	}
}
