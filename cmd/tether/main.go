// Package main is the entry point for the tether binding viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tetherui/tether/internal/app"
	"github.com/tetherui/tether/internal/config"
	"github.com/tetherui/tether/internal/log"
	"github.com/tetherui/tether/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	dataFile   string
	metaFile   string
	logLevel   string
	watch      bool
	once       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	applyFlags(cfg, opts)

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Output: os.Stderr,
		Prefix: "tether",
	})

	application, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if opts.once {
		return runOnce(application)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	go func() {
		if err := application.Run(ctx); err != nil {
			logger.Error("%v", err)
			cancel()
		}
	}()

	view, err := tui.New(application)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal view: %v\n", err)
		return 1
	}
	if err := view.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runOnce resolves every binding once and prints the results.
func runOnce(application *app.App) int {
	<-application.RefreshAll(false)

	for _, s := range application.Snapshot() {
		label := s.Path
		if s.TypeName != "" {
			label += " [" + s.TypeName + "]"
		}
		text := s.Text
		if !s.HasValue {
			text = "<none>"
		}
		fmt.Printf("%-40s %s\n", label, text)
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "tether.toml", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "tether.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.dataFile, "data", "", "JSON data document (overrides config)")
	flag.StringVar(&opts.metaFile, "meta", "", "JSON metadata document (overrides config)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.watch, "watch", false, "Watch the data file and refresh bindings on change")
	flag.BoolVar(&opts.once, "once", false, "Resolve all bindings once, print values, and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Tether - property binding viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tether [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tether -once                 Print bound values and exit\n")
		fmt.Fprintf(os.Stderr, "  tether -watch                Live view with file reload\n")
		fmt.Fprintf(os.Stderr, "  tether -data catalog.json    Bind against a specific document\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("tether %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts
}

// applyFlags overlays command line flags onto the loaded configuration.
func applyFlags(cfg *config.Config, opts options) {
	if opts.dataFile != "" {
		cfg.DataFile = opts.dataFile
	}
	if opts.metaFile != "" {
		cfg.MetadataFile = opts.metaFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.watch {
		cfg.Watch.Enabled = true
	}
}
