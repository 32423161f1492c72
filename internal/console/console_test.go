package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterNoColor(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	p.Step("Starting %s", "launcher")
	p.Success("All files found.")
	p.Error("file '%s' not found", "style.css")
	p.Hint("check %s", "the folder")
	p.URL("Server running at:", "http://localhost:8000/index.html")

	out := buf.String()
	assert.Contains(t, out, "Starting launcher\n")
	assert.Contains(t, out, "All files found.\n")
	assert.Contains(t, out, "\nERROR: file 'style.css' not found\n")
	assert.Contains(t, out, "check the folder\n")
	assert.Contains(t, out, "Server running at: http://localhost:8000/index.html\n")
	assert.NotContains(t, out, "\x1b[", "colors should be disabled")
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	p.Table(
		[]interface{}{"FILE", "SIZE"},
		[]interface{}{"index.html", 120},
		[]interface{}{"style.css", 42},
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "FILE"))
	assert.Contains(t, lines[1], "index.html")
	assert.Contains(t, lines[2], "42")
}

func TestPrinterEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Table()
	assert.Empty(t, buf.String())
}
