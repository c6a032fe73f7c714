package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/cellcombo/internal/app"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/filter"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envCatalog    = "CELLCOMBO_CATALOG"
	envWatch      = "CELLCOMBO_WATCH"
	envRows       = "CELLCOMBO_ROWS"
	envWidth      = "CELLCOMBO_WIDTH"
	envHeight     = "CELLCOMBO_HEIGHT"
	envShowFooter = "CELLCOMBO_FOOTER"
	envDebounce   = "CELLCOMBO_DEBOUNCE"
	envCloseDelay = "CELLCOMBO_CLOSE_DELAY"
	envMargin     = "CELLCOMBO_MARGIN"
	envMaxHeight  = "CELLCOMBO_MAX_HEIGHT"
	envNoBlink    = "CELLCOMBO_NO_BLINK"
	envTrace      = "CELLCOMBO_TRACE"
	envLogFile    = "CELLCOMBO_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := pflag.NewFlagSet("cellcombo", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	catalogPath := fs.StringP("catalog", "c", envOrDefault(env, envCatalog, ""), "project catalog file (.json, .jsonc, .yaml); empty uses the built-in sample")
	watch := fs.Bool("watch", envOrBool(env, envWatch, true), "reload the catalog file when it changes")
	rows := fs.Int("rows", envOrInt(env, envRows, app.DefaultRows), "number of timesheet rows")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	debounce := fs.Duration("debounce", envOrDuration(env, envDebounce, filter.DefaultDebounce), "delay between the last keystroke and filtering")
	closeDelay := fs.Duration("close-delay", envOrDuration(env, envCloseDelay, dropdown.DefaultCloseDelay), "inactivity before a dropdown closes when the pointer is away")
	margin := fs.Int("margin", envOrInt(env, envMargin, dropdown.DefaultMargin), "columns around the cell still counted as pointer inside")
	maxHeight := fs.Int("max-height", envOrInt(env, envMaxHeight, dropdown.DefaultMaxHeight), "maximum dropdown height in rows, border included")
	noBlink := fs.Bool("no-blink", envOrBool(env, envNoBlink, false), "disable caret blinking")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{}, fmt.Errorf("%w\n\nUsage of cellcombo:\n%s", err, fs.FlagUsages())
		}
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			CatalogPath: *catalogPath,
			Watch:       *watch,
			Rows:        *rows,
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
			Debounce:    *debounce,
			CloseDelay:  *closeDelay,
			Margin:      *margin,
			MaxHeight:   *maxHeight,
			NoBlink:     *noBlink,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"catalog":     *catalogPath,
			"watch":       strconv.FormatBool(*watch),
			"rows":        strconv.Itoa(*rows),
			"width":       strconv.Itoa(*width),
			"height":      strconv.Itoa(*height),
			"footer":      strconv.FormatBool(*footer),
			"debounce":    debounce.String(),
			"close-delay": closeDelay.String(),
			"margin":      strconv.Itoa(*margin),
			"max-height":  strconv.Itoa(*maxHeight),
			"no-blink":    strconv.FormatBool(*noBlink),
			"trace":       strconv.FormatBool(*trace),
			"logFile":     *logFile,
		},
		Args: append([]string(nil), args...),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects negative sizes and non-positive durations.
func Validate(cfg Config) error {
	a := cfg.App
	ints := []struct {
		name  string
		value int
	}{
		{"rows", a.Rows},
		{"width", a.Width},
		{"height", a.Height},
		{"margin", a.Margin},
		{"max-height", a.MaxHeight},
	}
	for _, v := range ints {
		if v.value < 0 {
			return fmt.Errorf("%s must be >= 0 (got %d)", v.name, v.value)
		}
	}
	// zero would be replaced by the control defaults
	if a.Debounce <= 0 {
		return fmt.Errorf("debounce must be > 0 (got %s)", a.Debounce)
	}
	if a.CloseDelay <= 0 {
		return fmt.Errorf("close-delay must be > 0 (got %s)", a.CloseDelay)
	}
	return nil
}
