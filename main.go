package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/atomicstack/cellcombo/internal/app"
	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/config"
	"github.com/atomicstack/cellcombo/internal/logging"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"golang.org/x/term"
)

const (
	exitFailure = 1
	exitCatalog = 3
)

func main() {
	cfg := config.MustLoad()
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(startupPayload(cfg))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates an unusable catalog file from runtime failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNoItems),
		errors.Is(err, catalog.ErrUnknownFormat),
		errors.Is(err, fs.ErrNotExist):
		return exitCatalog
	default:
		return exitFailure
	}
}

// startupPayload bundles runtime context for the start trace entry.
func startupPayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	source := "file"
	if cfg.App.CatalogPath == "" {
		source = "sample"
	}
	payload := map[string]interface{}{
		"argv":  cfg.Args,
		"flags": flags,
		"catalog": map[string]interface{}{
			"path":   cfg.App.CatalogPath,
			"source": source,
			"watch":  cfg.App.Watch && source == "file",
		},
		"tunables": map[string]interface{}{
			"debounce":   cfg.App.Debounce.String(),
			"closeDelay": cfg.App.CloseDelay.String(),
			"margin":     cfg.App.Margin,
			"maxHeight":  cfg.App.MaxHeight,
		},
		"terminal": probeTerminal(),
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type terminalReport struct {
	Size   *terminalSize   `json:"size,omitempty"`
	Probes []terminalProbe `json:"probes"`
}

type terminalSize struct {
	From   string `json:"from"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type terminalProbe struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Error    string `json:"error,omitempty"`
}

// probeTerminal reports which standard descriptors are terminals and the
// size of the first one that answers.
func probeTerminal() terminalReport {
	files := []*os.File{os.Stdout, os.Stdin, os.Stderr}
	names := []string{"stdout", "stdin", "stderr"}
	report := terminalReport{Probes: make([]terminalProbe, 0, len(files))}
	for i, f := range files {
		probe := terminalProbe{Name: names[i]}
		fd := int(f.Fd())
		if fd < 0 || !term.IsTerminal(fd) {
			report.Probes = append(report.Probes, probe)
			continue
		}
		probe.Terminal = true
		width, height, err := term.GetSize(fd)
		switch {
		case err != nil:
			probe.Error = err.Error()
		case report.Size == nil:
			report.Size = &terminalSize{From: names[i], Width: width, Height: height}
		}
		report.Probes = append(report.Probes, probe)
	}
	return report
}
