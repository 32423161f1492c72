package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wireworld-launcher/internal/browser"
	"wireworld-launcher/internal/console"
	"wireworld-launcher/internal/launcher"
	"wireworld-launcher/pkg/config"

	"github.com/sirupsen/logrus"
)

func main() {
	fs := newFlagSet(os.Args[0], flag.ExitOnError)
	cfg, err := loadConfig(fs, os.Args[1:], os.LookupEnv)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Configure logrus
	if err := configureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("Invalid logging configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.StandardLogger()
	opener := browser.NewSystem(logger)
	l := launcher.New(cfg, launcher.Options{
		Opener:  opener,
		Printer: console.New(os.Stdout, flagValue[bool](fs, "no-color")),
		Logger:  logger,
	})

	err = l.Run(ctx)
	stop()
	opener.Close()
	os.Exit(launcher.ExitCode(err))
}

func newFlagSet(name string, handling flag.ErrorHandling) *flag.FlagSet {
	fs := flag.NewFlagSet(name, handling)
	fs.String("config", "", "optional TOML configuration file")
	fs.String("host", config.DefaultHost, "host to listen on and to open in the browser")
	fs.Int("port", config.DefaultPort, "TCP port to listen on (0 picks a free port)")
	fs.String("root", config.DefaultRoot, "directory containing the files to serve")
	fs.String("files", strings.Join(config.DefaultRequiredFiles, ","), "comma-separated required files, the first is opened in the browser")
	fs.Duration("delay", config.DefaultBrowserDelay, "pause before opening the browser")
	fs.Bool("no-browser", false, "do not open a browser")
	fs.Bool("log-requests", false, "log every HTTP request")
	fs.Bool("list-files", false, "print a table of the required files after the check")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (text or json)")
	fs.Bool("no-color", false, "disable colored console output")
	return fs
}

// loadConfig parses args and layers defaults < TOML file < environment < flags
func loadConfig(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(flagValue[string](fs, "config"))
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	applyFlags(&cfg, fs)
	return cfg, nil
}

// applyFlags copies the flags given on the command line into cfg. Flags left
// at their default do not touch cfg.
func applyFlags(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = flagValue[string](fs, f.Name)
		case "port":
			cfg.Port = flagValue[int](fs, f.Name)
		case "root":
			cfg.Root = flagValue[string](fs, f.Name)
		case "files":
			cfg.RequiredFiles = config.NormalizeFiles(strings.Split(flagValue[string](fs, f.Name), ","))
		case "delay":
			cfg.BrowserDelay = config.Duration{Duration: flagValue[time.Duration](fs, f.Name)}
		case "no-browser":
			cfg.OpenBrowser = !flagValue[bool](fs, f.Name)
		case "log-requests":
			cfg.LogRequests = flagValue[bool](fs, f.Name)
		case "list-files":
			cfg.ListFiles = flagValue[bool](fs, f.Name)
		case "log-level":
			cfg.LogLevel = flagValue[string](fs, f.Name)
		case "log-format":
			cfg.LogFormat = flagValue[string](fs, f.Name)
		}
	})
}

// flagValue returns the typed value of a flag registered on fs
func flagValue[T any](fs *flag.FlagSet, name string) T {
	var zero T
	f := fs.Lookup(name)
	if f == nil {
		return zero
	}
	getter, ok := f.Value.(flag.Getter)
	if !ok {
		return zero
	}
	v, _ := getter.Get().(T)
	return v
}

func configureLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}
