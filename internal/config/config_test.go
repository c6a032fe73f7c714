package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/cellcombo/internal/app"
	"github.com/spf13/pflag"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := cfg.App
	if a.CatalogPath != "" || !a.Watch || a.Rows != app.DefaultRows {
		t.Fatalf("unexpected catalog defaults: %+v", a)
	}
	if a.Debounce != 500*time.Millisecond {
		t.Fatalf("expected 500ms debounce, got %s", a.Debounce)
	}
	if a.CloseDelay != 750*time.Millisecond {
		t.Fatalf("expected 750ms close delay, got %s", a.CloseDelay)
	}
	if a.Margin != 2 {
		t.Fatalf("expected margin 2, got %d", a.Margin)
	}
	if cfg.Logging.Trace {
		t.Fatalf("expected tracing disabled by default")
	}
}

func TestLoadArgsFlags(t *testing.T) {
	args := []string{"-c", "projects.jsonc", "--width", "100", "--debounce", "250ms", "--no-blink", "--trace", "--log-file", "/tmp/cc.log"}
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.CatalogPath != "projects.jsonc" {
		t.Fatalf("expected catalog flag, got %q", cfg.App.CatalogPath)
	}
	if cfg.App.Width != 100 {
		t.Fatalf("expected width 100, got %d", cfg.App.Width)
	}
	if cfg.App.Debounce != 250*time.Millisecond {
		t.Fatalf("expected debounce 250ms, got %s", cfg.App.Debounce)
	}
	if !cfg.App.NoBlink || !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/cc.log" {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if cfg.Flags["debounce"] != "250ms" {
		t.Fatalf("expected debounce in flag map, got %q", cfg.Flags["debounce"])
	}
	if len(cfg.Args) != len(args) {
		t.Fatalf("expected args to be recorded, got %v", cfg.Args)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	env := []string{
		"CELLCOMBO_CATALOG=/srv/projects.yaml",
		"CELLCOMBO_HEIGHT=30",
		"CELLCOMBO_CLOSE_DELAY=2s",
		"CELLCOMBO_WATCH=false",
		"CELLCOMBO_MARGIN=not-a-number",
		"UNRELATED",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.CatalogPath != "/srv/projects.yaml" {
		t.Fatalf("expected catalog from env, got %q", cfg.App.CatalogPath)
	}
	if cfg.App.Height != 30 {
		t.Fatalf("expected height 30, got %d", cfg.App.Height)
	}
	if cfg.App.CloseDelay != 2*time.Second {
		t.Fatalf("expected close delay 2s, got %s", cfg.App.CloseDelay)
	}
	if cfg.App.Watch {
		t.Fatalf("expected watch disabled from env")
	}
	if cfg.App.Margin != 2 {
		t.Fatalf("expected malformed margin to fall back to 2, got %d", cfg.App.Margin)
	}
}

func TestFlagsBeatEnvironment(t *testing.T) {
	cfg, err := LoadArgs([]string{"--height", "12"}, []string{"CELLCOMBO_HEIGHT=30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Height != 12 {
		t.Fatalf("expected flag to win, got %d", cfg.App.Height)
	}
}

func TestValidateRejectsNegatives(t *testing.T) {
	cases := map[string][]string{
		"width":       {"--width=-1"},
		"margin":      {"--margin=-3"},
		"max-height":  {"--max-height=-2"},
		"debounce":    {"--debounce=-5ms"},
		"close-delay": {"--close-delay=-1s"},
	}
	for name, args := range cases {
		_, err := LoadArgs(args, nil)
		if err == nil || !strings.Contains(err.Error(), name) {
			t.Fatalf("expected %s to be rejected, got %v", name, err)
		}
	}
}

func TestValidateRejectsZeroDurations(t *testing.T) {
	for name, args := range map[string][]string{
		"debounce":    {"--debounce", "0"},
		"close-delay": {"--close-delay", "0s"},
	} {
		_, err := LoadArgs(args, nil)
		if err == nil || !strings.Contains(err.Error(), name+" must be > 0") {
			t.Fatalf("expected zero %s to be rejected, got %v", name, err)
		}
	}
	if _, err := LoadArgs(nil, []string{"CELLCOMBO_DEBOUNCE=0s"}); err == nil {
		t.Fatalf("expected zero debounce from env to be rejected")
	}
}

func TestHelpIncludesUsage(t *testing.T) {
	_, err := LoadArgs([]string{"--help"}, nil)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(err.Error(), "--close-delay") {
		t.Fatalf("expected usage text in help error, got %q", err.Error())
	}
}

func TestUnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"--socket", "x"}, nil); err == nil {
		t.Fatalf("expected unknown flag error")
	}
}
