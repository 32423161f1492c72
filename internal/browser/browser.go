// Package browser opens URLs in the user's default web browser.
package browser

import (
	"fmt"
	"io"

	pkgbrowser "github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

// Opener opens a URL somewhere a human can see it
type Opener interface {
	Open(url string) error
}

// Func adapts a function to the Opener interface
type Func func(url string) error

// Open calls f(url)
func (f Func) Open(url string) error {
	return f(url)
}

// System opens URLs with the platform's registered browser handler
// (xdg-open, open, rundll32).
type System struct {
	output *io.PipeWriter
}

// NewSystem returns a System opener. Output of the helper process is sent to
// logger at debug level instead of the terminal, through a single writer
// released by Close.
func NewSystem(logger *logrus.Logger) *System {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	output := logger.WriterLevel(logrus.DebugLevel)
	pkgbrowser.Stdout = output
	pkgbrowser.Stderr = output
	return &System{output: output}
}

// Close releases the log writer
func (s *System) Close() error {
	return s.output.Close()
}

// Open asks the system to open url. It does not wait for the browser.
func (s *System) Open(url string) error {
	if err := pkgbrowser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser at %s: %w", url, err)
	}
	return nil
}
