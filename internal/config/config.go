package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/panview/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Load    bool
	Failure bool
}

// Config holds the application configuration.
type Config struct {
	Theme         string
	FitMargin     float64 // 0 means the built-in default
	Interpolation string
	Backdrop      string // "checker" or "flat"
	Notify        Notify
	Themes        map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{
			Load:    false,
			Failure: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.FitMargin != 0 {
		fmt.Fprintf(&sb, "fit_margin = %s\n", strconv.FormatFloat(c.FitMargin, 'g', -1, 64))
	}
	if c.Interpolation != "" {
		fmt.Fprintf(&sb, "interpolation = %s\n", c.Interpolation)
	}
	if c.Backdrop != "" {
		fmt.Fprintf(&sb, "backdrop = %s\n", c.Backdrop)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "failure = %v\n", c.Notify.Failure)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, key := range theme.Fields() {
			col, _ := t.Get(key)
			fmt.Fprintf(&sb, "%s: %s\n", key, theme.Hex(col))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
