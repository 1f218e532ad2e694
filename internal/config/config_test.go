package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
fit_margin = 0.9
interpolation = CatmullRom
backdrop = flat

[notify]
load = true
failure = false

[theme.my_custom_theme]
Background = #111111
StatusText = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.FitMargin != 0.9 {
		t.Errorf("Expected fit_margin 0.9, got %v", cfg.FitMargin)
	}
	if cfg.Interpolation != "catmullrom" {
		t.Errorf("Expected interpolation 'catmullrom', got %q", cfg.Interpolation)
	}
	if cfg.Backdrop != "flat" {
		t.Errorf("Expected backdrop 'flat', got %q", cfg.Backdrop)
	}
	if diff := cmp.Diff(Notify{Load: true, Failure: false}, cfg.Notify); diff != "" {
		t.Errorf("notify mismatch (-want +got):\n%s", diff)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, in := range []string{
		"fit_margin = 1.5",
		"fit_margin = nope",
		"backdrop = stripes",
		"[notify]\nload = maybe",
		"[theme.x]\nBackground = blue",
	} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
fit_margin = 0.8
interpolation = bilinear

[notify]
load = true
failure = true

[theme.custom]
Name = custom
Background = #000000
StatusAccent = #FF000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}
	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestLoaderDevPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvPath, "")

	if err := os.WriteFile(filepath.Join(dir, ".panviewrc"), []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader("dev", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("dev build should read ./.panviewrc, got theme %q", cfg.Theme)
	}

	cfg, err = NewLoader("v1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "" {
		t.Errorf("release build should ignore ./.panviewrc, got theme %q", cfg.Theme)
	}
}

func TestLoaderOverride(t *testing.T) {
	t.Setenv(EnvPath, "")
	path := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(path, []byte("[notify]\nload = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("dev", path)
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q, want %q", got, path)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Notify.Load {
		t.Error("override config not applied")
	}
}

func TestLoaderEnvPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	path := filepath.Join(t.TempDir(), "env.rc")
	if err := os.WriteFile(path, []byte("backdrop = flat\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)

	cfg, err := NewLoader("v1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backdrop != "flat" {
		t.Errorf("env config not applied, backdrop %q", cfg.Backdrop)
	}

	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "missing.rc"))
	if _, err := NewLoader("v1.0.0", "").Load(); err == nil || !strings.Contains(err.Error(), EnvPath) {
		t.Errorf("missing env config should fail naming %s, got %v", EnvPath, err)
	}
}

func TestLoaderSkipsUnresolvedHome(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvPath, "")

	// A relative .config tree must not be mistaken for the user config.
	rel := filepath.Join(dir, ".config", "panview")
	if err := os.MkdirAll(rel, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rel, "config.rc"), []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("v1.0.0", "")
	if got := l.Candidates(); len(got) != 0 {
		t.Errorf("Candidates = %v, want none", got)
	}
	if got := l.GetConfigPath(); got != "" {
		t.Errorf("GetConfigPath = %q, want empty", got)
	}
	if _, err := l.SavePath(); err == nil {
		t.Error("SavePath should fail without a config dir")
	}
}

func TestSavePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvPath, "")
	got, err := NewLoader("v1.0.0", "").SavePath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "panview", "config.rc"); got != want {
		t.Errorf("SavePath = %q, want %q", got, want)
	}
}
