package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"mime"
	"net"
	"net/http"
	"path"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"wireworld-launcher/web"
)

func init() {
	mime.AddExtensionType(".wasm", "application/wasm")
	mime.AddExtensionType(".mjs", "text/javascript; charset=utf-8")
}

// State is the lifecycle position of a Server
type State int32

const (
	Unstarted State = iota
	Listening
	Stopped
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Listening:
		return "listening"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrNotListening is returned by Serve when Listen has not succeeded
var ErrNotListening = errors.New("server is not listening")

// Options configures a Server at construction time
type Options struct {
	// LogRequests logs one line per request. Off by default.
	LogRequests bool
	Logger      *logrus.Logger
}

// Server serves the files of a single root directory over HTTP
type Server struct {
	root     http.Dir
	opts     Options
	files    http.Handler
	httpSrv  *http.Server
	errorLog *io.PipeWriter
	listener net.Listener
	state    atomic.Int32
}

// New creates a Server for root. The root is resolved once here and never
// revisited per request.
func New(root string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Server{
		root:     http.Dir(root),
		opts:     opts,
		files:    http.FileServer(http.Dir(root)),
		errorLog: opts.Logger.WriterLevel(logrus.DebugLevel),
	}
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.New(s.errorLog, "", 0),
	}
	return s
}

// Handler returns the file serving handler
func (s *Server) Handler() http.Handler {
	h := http.HandlerFunc(s.serveFile)
	if s.opts.LogRequests {
		return logRequests(s.opts.Logger, h)
	}
	return h
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			notFound(w)
			return
		}
		s.files.ServeHTTP(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Directories go through http.FileServer for index.html and listings
	if info.IsDir() {
		s.files.ServeHTTP(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	w.Write(web.NotFoundHTML)
}

// Listen binds the TCP listener. Bind errors such as a port already in use
// are returned to the caller.
func (s *Server) Listen(addr string) error {
	if s.listener != nil {
		return fmt.Errorf("server already listening on %s", s.listener.Addr())
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.listener = ln
	s.state.Store(int32(Listening))
	s.opts.Logger.WithFields(logrus.Fields{
		"addr": ln.Addr().String(),
		"root": string(s.root),
	}).Debug("File server listening")
	return nil
}

// Serve runs the accept loop until the listener is closed
func (s *Server) Serve() error {
	if s.listener == nil {
		return ErrNotListening
	}

	err := s.httpSrv.Serve(s.listener)
	s.state.Store(int32(Stopped))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops the server. The launcher never calls it; process exit reclaims
// the socket. Tests use it to tear servers down.
func (s *Server) Close() error {
	err := s.httpSrv.Close()
	if s.listener != nil {
		s.listener.Close()
	}
	s.errorLog.Close()
	s.state.Store(int32(Stopped))
	return err
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0 before Listen
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// State returns the current lifecycle state
func (s *Server) State() State {
	return State(s.state.Load())
}
