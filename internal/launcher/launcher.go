// Package launcher sequences the asset check, the background file server and
// the browser, then waits for an interrupt.
//
// The file server is fire-and-forget: it runs in its own goroutine, is never
// joined and is never shut down explicitly. Its socket is reclaimed when the
// process exits.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"wireworld-launcher/internal/assets"
	"wireworld-launcher/internal/browser"
	"wireworld-launcher/internal/console"
	"wireworld-launcher/internal/server"
	"wireworld-launcher/pkg/config"
)

// ErrServerStopped is returned when the accept loop ends on its own
var ErrServerStopped = errors.New("file server stopped unexpectedly")

// Options holds the launcher's collaborators. Nil fields get defaults.
type Options struct {
	Opener  browser.Opener
	Printer *console.Printer
	Logger  *logrus.Logger

	// OnListening is called with the bound server before the accept loop
	// starts. Test harnesses use it to close the server when they are done.
	OnListening func(*server.Server)
}

// Launcher runs one launch with a fixed configuration
type Launcher struct {
	cfg         config.Config
	opener      browser.Opener
	out         *console.Printer
	log         *logrus.Logger
	onListening func(*server.Server)
}

// New creates a Launcher. cfg is copied and not changed afterwards.
func New(cfg config.Config, opts Options) *Launcher {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Printer == nil {
		opts.Printer = console.New(os.Stdout, false)
	}
	if opts.Opener == nil {
		opts.Opener = browser.NewSystem(opts.Logger)
	}

	cfg.RequiredFiles = append([]string(nil), cfg.RequiredFiles...)
	return &Launcher{
		cfg:         cfg,
		opener:      opts.Opener,
		out:         opts.Printer,
		log:         opts.Logger,
		onListening: opts.OnListening,
	}
}

// Run performs the launch and blocks until ctx is done or the file server
// fails. A cancelled ctx is the normal way out and returns nil.
func (l *Launcher) Run(ctx context.Context) error {
	l.out.Step("Starting the WireWorld launcher...")

	if err := l.cfg.Validate(); err != nil {
		l.out.Error("invalid configuration: %v", err)
		return fmt.Errorf("invalid configuration: %w", err)
	}

	report, err := assets.Check(l.cfg.Root, l.cfg.RequiredFiles)
	if err != nil {
		var missing *assets.MissingFileError
		if errors.As(err, &missing) {
			l.out.Error("File '%s' not found in %s.", missing.File, missing.Dir)
			l.out.Hint("Make sure all required files (%s) are in that folder.", strings.Join(l.cfg.RequiredFiles, ", "))
		} else {
			l.out.Error("%v", err)
		}
		return err
	}
	l.out.Success("All files were found.")
	if l.cfg.ListFiles {
		l.out.Table(report.Rows()...)
	}

	srv := server.New(report.Dir, server.Options{
		LogRequests: l.cfg.LogRequests,
		Logger:      l.log,
	})
	if err := srv.Listen(l.cfg.Addr()); err != nil {
		l.out.Error("could not start the server: %v", err)
		return err
	}
	if l.onListening != nil {
		l.onListening(srv)
	}

	serveErr := make(chan error, 1)
	go func() {
		err := srv.Serve()
		if err == nil {
			err = ErrServerStopped
		}
		l.log.WithError(err).Error("File server accept loop ended")
		serveErr <- err
	}()

	url := l.cfg.EntryURL(srv.Port())
	l.out.URL("Server started at:", url)
	l.log.WithFields(logrus.Fields{
		"url":  url,
		"root": report.Dir,
		"addr": srv.Addr().String(),
	}).Debug("Launcher ready")

	if l.cfg.OpenBrowser {
		l.out.Step("Opening the browser...")
		if done, err := l.wait(ctx, serveErr, l.cfg.BrowserDelay.Duration); done {
			return err
		}
		if err := l.opener.Open(url); err != nil {
			l.log.WithError(err).WithField("url", url).Warn("Could not open the browser, open the URL manually")
		}
	}

	l.out.Hint("\nThe server is running. To stop it, close this window or press Ctrl+C.")
	_, err = l.wait(ctx, serveErr, -1)
	return err
}

// wait blocks for d (forever when d < 0). done reports that the launch is
// over, either by interrupt (err nil) or by a server failure.
func (l *Launcher) wait(ctx context.Context, serveErr <-chan error, d time.Duration) (done bool, err error) {
	var timeout <-chan time.Time
	if d >= 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		l.out.Success("\nServer stopped. Bye!")
		return true, nil
	case err := <-serveErr:
		l.out.Error("the server stopped: %v", err)
		return true, err
	case <-timeout:
		return false, nil
	}
}

// ExitCode maps the result of Run to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
