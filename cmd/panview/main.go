package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/example/panview/internal/config"
	"github.com/example/panview/internal/notify"
	"github.com/example/panview/internal/render"
	"github.com/example/panview/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	log            *slog.Logger
	loadAlerts     bool
	failureAlerts  bool
	verbose        bool
	themeName      string
	activeTheme    *theme.Theme
	stdout, stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("panview", flag.ContinueOnError),
		program: "panview",
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.config = cfg

	r.fs.SetOutput(io.Discard)
	r.fs.BoolVar(&r.loadAlerts, "notify-load", cfg.Notify.Load, "show a desktop notification when an image is opened")
	r.fs.BoolVar(&r.failureAlerts, "notify-failure", cfg.Notify.Failure, "show a desktop notification when an import fails")
	r.fs.BoolVar(&r.verbose, "v", false, "enable debug logging")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	return r
}

// newLogger honours -v first, then PANVIEW_LOG_LEVEL, defaulting to info.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if v := strings.TrimSpace(os.Getenv("PANVIEW_LOG_LEVEL")); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			level = l
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveTheme picks the theme named on the command line, in the
// environment or in the config file, in that order.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("PANVIEW_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			r.log.Warn("theme not found, using default", "theme", name, "err", err)
		}
		return theme.Default()
	}
	return t
}

// renderOptions merges config defaults with an optional -interp override.
func (r *root) renderOptions(interp string, flat bool) (render.Options, error) {
	if interp == "" {
		interp = r.config.Interpolation
	}
	in, err := render.Interpolation(interp)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Interpolator: in,
		Theme:        r.activeTheme,
		Flat:         flat || r.config.Backdrop == "flat",
	}, nil
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.log == nil {
		r.log = newLogger(r.stderr, r.verbose)
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier = notify.New(notify.LoadPreferences(), r.log)
	defer r.notifier.Close()
	r.notifier.Enable(notify.EventLoad, r.loadAlerts)
	r.notifier.Enable(notify.EventFailure, r.failureAlerts)
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "info":
		cmd, err = parseInfoCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
