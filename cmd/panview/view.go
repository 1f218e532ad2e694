package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/example/panview/internal/appstate"
)

type viewCmd struct {
	*root
	fs *flag.FlagSet
	inputFlags
	width, height int
	interp        string
	flat          bool
	fitMargin     float64
}

func (v *viewCmd) FlagSet() *flag.FlagSet { return v.fs }

func (v *viewCmd) Program() string { return v.root.program + " view" }

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	c := &viewCmd{root: r, fs: fs}
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.file, "file", "", "image file to open")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "paste the clipboard image on start")
	fs.BoolVar(&c.noFetch, "no-fetch", false, "never download image URLs found on the clipboard")
	fs.IntVar(&c.width, "width", 1024, "initial window width")
	fs.IntVar(&c.height, "height", 768, "initial window height")
	fs.StringVar(&c.interp, "interp", "", "interpolation: approx, bilinear, catmullrom, nearest")
	fs.BoolVar(&c.flat, "flat", false, "use a flat background instead of a checkerboard")
	fs.Float64Var(&c.fitMargin, "fit-margin", 0, "fraction of the window a fitted image fills (0 uses config or 0.95)")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if c.file != "" && c.fromClipboard {
		return nil, fmt.Errorf("-file and -from-clipboard are mutually exclusive")
	}
	if c.fitMargin < 0 || c.fitMargin > 1 {
		return nil, fmt.Errorf("-fit-margin must be within (0, 1]")
	}
	return c, nil
}

func (v *viewCmd) Run() error {
	opts, err := v.root.renderOptions(v.interp, v.flat)
	if err != nil {
		return err
	}
	margin := v.fitMargin
	if margin == 0 {
		margin = v.root.config.FitMargin
	}
	stOpts := []appstate.Option{
		appstate.WithClipboard(clipboardSource),
		appstate.WithFetcher(v.fetcher()),
		appstate.WithRenderOptions(opts),
		appstate.WithFitMargin(margin),
		appstate.WithLogger(v.root.log),
		appstate.WithNotifier(v.root.notifier),
		appstate.WithWindowSize(v.width, v.height),
	}
	if v.file != "" {
		stOpts = append(stOpts, appstate.WithFile(v.file))
	}
	if v.fromClipboard {
		stOpts = append(stOpts, appstate.WithPasteOnStart())
	}
	appstate.New(stOpts...).Run()
	return nil
}
