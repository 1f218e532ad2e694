package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvPath names a config file that takes precedence over the search path.
const EnvPath = "PANVIEW_CONFIG"

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // "dev" also searches the working directory
	OverridePath string // set at build time
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first existing config file, or returns defaults when there
// is none. A PANVIEW_CONFIG path that does not exist is an error.
func (l *Loader) Load() (*Config, error) {
	if p := os.Getenv(EnvPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvPath, err)
		}
	}
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Candidates lists the paths searched, most specific first.
func (l *Loader) Candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".panviewrc"))
		}
	}
	if dir, err := userDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "panview.rc"))
	}
	return paths
}

// GetConfigPath returns the first candidate that exists, or "".
func (l *Loader) GetConfigPath() string {
	for _, p := range l.Candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// SavePath is where "config save" writes: the file in use, or the user
// config file when none exists yet.
func (l *Loader) SavePath() (string, error) {
	if p := l.GetConfigPath(); p != "" {
		return p, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := userDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "config.rc"), nil
}

func userDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "panview"), nil
}
