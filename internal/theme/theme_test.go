package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	in := `
# comment
Name: Custom
StatusText: #112233
checkerdark: #44556680
Unknown: #FFFFFF
`
	got, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Default()
	want.Name = "Custom"
	want.StatusText = color.RGBA{0x11, 0x22, 0x33, 0xFF}
	want.CheckerDark = color.RGBA{0x44, 0x55, 0x66, 0x80}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("theme mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: red")); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Parse(strings.NewReader("Background: #12345")); err == nil {
		t.Fatal("expected error for short hex")
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#0A0B0C", "#0A0B0C0D"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", s, err)
		}
		if got := Hex(c); got != s {
			t.Errorf("Hex(ParseColor(%q)) = %q", s, got)
		}
	}
}

func TestLoaderEmbedded(t *testing.T) {
	l := &Loader{Dirs: []string{t.TempDir(), t.TempDir()}}
	dark, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load dark: %v", err)
	}
	if dark.Name != "Dark" {
		t.Errorf("name = %q", dark.Name)
	}
	if diff := cmp.Diff([]string{"dark", "default"}, Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestLoaderConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{Dirs: []string{t.TempDir(), dir}}
	got, err := l.Load("mine")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "Mine" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestLoaderPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solar.theme")
	if err := os.WriteFile(path, []byte("Name: Solar\nBackground: #FDF6E3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := (&Loader{}).Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if got.Name != "Solar" {
		t.Errorf("name = %q", got.Name)
	}

	bad := filepath.Join(t.TempDir(), "bad.theme")
	if err := os.WriteFile(bad, []byte("Background: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&Loader{}).Load(bad); err == nil || !strings.Contains(err.Error(), "bad.theme") {
		t.Errorf("expected parse error naming the file, got %v", err)
	}
}

func TestNewLoaderDirs(t *testing.T) {
	extra := t.TempDir()
	t.Setenv("PANVIEW_THEME_DIR", extra)
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	want := []string{extra, filepath.Join("/xdg", "panview", "themes"), systemDir}
	if diff := cmp.Diff(want, NewLoader().Dirs); diff != "" {
		t.Errorf("dirs mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("PANVIEW_THEME_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if diff := cmp.Diff([]string{systemDir}, NewLoader().Dirs); diff != "" {
		t.Errorf("unresolvable home should be skipped (-want +got):\n%s", diff)
	}
}
