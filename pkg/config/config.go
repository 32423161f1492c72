package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
)

// Defaults
const (
	DefaultHost         = "localhost"
	DefaultPort         = 8000
	DefaultRoot         = "."
	DefaultBrowserDelay = time.Second

	// HostEnv overrides the host. Plain HOST is ignored, shells set it to the machine name.
	HostEnv = "WIREWORLD_HOST"
	PortEnv = "PORT"
)

// DefaultRequiredFiles lists the assets the launcher expects. The first entry
// is the page opened in the browser.
var DefaultRequiredFiles = []string{"index.html", "style.css", "script.js"}

// Duration wraps time.Duration so it can be written as "1s" in TOML files.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText formats the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds everything the launcher needs. It is fixed before the asset
// check runs and is passed by value from then on.
type Config struct {
	Host          string   `toml:"host"`
	Port          int      `toml:"port"`
	Root          string   `toml:"root"`
	RequiredFiles []string `toml:"required_files"`
	BrowserDelay  Duration `toml:"browser_delay"`
	OpenBrowser   bool     `toml:"open_browser"`
	LogRequests   bool     `toml:"log_requests"`
	ListFiles     bool     `toml:"list_files"`
	LogLevel      string   `toml:"log_level"`
	LogFormat     string   `toml:"log_format"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		Root:          DefaultRoot,
		RequiredFiles: append([]string(nil), DefaultRequiredFiles...),
		BrowserDelay:  Duration{DefaultBrowserDelay},
		OpenBrowser:   true,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// fileConfig mirrors Config with optional fields so that only keys present
// in the file override the defaults.
type fileConfig struct {
	Host          *string   `toml:"host"`
	Port          *int      `toml:"port"`
	Root          *string   `toml:"root"`
	RequiredFiles []string  `toml:"required_files"`
	BrowserDelay  *Duration `toml:"browser_delay"`
	OpenBrowser   *bool     `toml:"open_browser"`
	LogRequests   *bool     `toml:"log_requests"`
	ListFiles     *bool     `toml:"list_files"`
	LogLevel      *string   `toml:"log_level"`
	LogFormat     *string   `toml:"log_format"`
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var fc fileConfig
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: unknown keys:\n%s", path, strict.String())
		}
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(&cfg)
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) {
	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Root != nil {
		cfg.Root = *fc.Root
	}
	if fc.RequiredFiles != nil {
		cfg.RequiredFiles = NormalizeFiles(fc.RequiredFiles)
	}
	if fc.BrowserDelay != nil {
		cfg.BrowserDelay = *fc.BrowserDelay
	}
	if fc.OpenBrowser != nil {
		cfg.OpenBrowser = *fc.OpenBrowser
	}
	if fc.LogRequests != nil {
		cfg.LogRequests = *fc.LogRequests
	}
	if fc.ListFiles != nil {
		cfg.ListFiles = *fc.ListFiles
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
}

// ApplyEnv overrides the port from PORT and the host from WIREWORLD_HOST.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if host, ok := lookup(HostEnv); ok && host != "" {
		c.Host = host
	}
	if port, ok := lookup(PortEnv); ok && port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", PortEnv, port, err)
		}
		c.Port = p
	}
	return nil
}

// NormalizeFiles trims names, drops empty entries and duplicates, keeping the
// first occurrence so the entry file stays first.
func NormalizeFiles(files []string) []string {
	trimmed := lo.Map(files, func(f string, _ int) string {
		return filepath.ToSlash(strings.TrimSpace(f))
	})
	return lo.Uniq(lo.Compact(trimmed))
}

// Validate reports the first problem with the configuration
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Root == "" {
		return errors.New("root directory must not be empty")
	}
	if len(c.RequiredFiles) == 0 {
		return errors.New("at least one required file is needed")
	}
	for _, f := range c.RequiredFiles {
		if !filepath.IsLocal(filepath.FromSlash(f)) {
			return fmt.Errorf("required file %q must be a relative path inside the root", f)
		}
	}
	if c.BrowserDelay.Duration < 0 {
		return fmt.Errorf("browser delay %s must not be negative", c.BrowserDelay)
	}
	return nil
}

// EntryFile returns the file opened in the browser
func (c Config) EntryFile() string {
	if len(c.RequiredFiles) == 0 {
		return ""
	}
	return c.RequiredFiles[0]
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// EntryURL builds http://<host>:<port>/<entry file>. port is the port the
// listener actually bound, which differs from c.Port only when c.Port is 0.
func (c Config) EntryURL(port int) string {
	return fmt.Sprintf("http://%s/%s", net.JoinHostPort(c.Host, strconv.Itoa(port)), c.EntryFile())
}
