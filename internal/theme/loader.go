package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// systemDir holds themes installed with the package.
const systemDir = "/usr/share/panview/themes"

// Loader resolves theme names against the embedded defaults and a list of
// directories searched in order.
type Loader struct {
	Dirs []string
}

// NewLoader searches PANVIEW_THEME_DIR, the user config dir and the system
// dir. Directories whose base cannot be resolved are left out.
func NewLoader() *Loader {
	var dirs []string
	if d := os.Getenv("PANVIEW_THEME_DIR"); d != "" {
		dirs = append(dirs, d)
	}
	if base, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(base, "panview", "themes"))
	}
	dirs = append(dirs, systemDir)
	return &Loader{Dirs: dirs}
}

// Load returns the theme called name. name may be a path to a .theme file,
// an embedded theme, or a file in one of the loader's directories. An empty
// name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".theme") {
		if t, err := parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name)); !errors.Is(err, fs.ErrNotExist) {
			return t, err
		}
	}

	file := strings.TrimSuffix(name, ".theme") + ".theme"
	if t, err := parseFile(EmbeddedThemes, "defaults/"+file); !errors.Is(err, fs.ErrNotExist) {
		return t, err
	}
	for _, dir := range l.Dirs {
		if t, err := parseFile(os.DirFS(dir), file); !errors.Is(err, fs.ErrNotExist) {
			return t, err
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}

// Names lists the embedded theme names.
func Names() []string {
	entries, err := EmbeddedThemes.ReadDir("defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".theme"))
	}
	return names
}
