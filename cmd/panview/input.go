package main

import (
	"context"
	"fmt"

	"github.com/example/panview/internal/clipboard"
	"github.com/example/panview/internal/importer"
)

// clipboardSource is replaced in tests.
var clipboardSource importer.Source = clipboard.System{}

// inputFlags is shared by commands that read one image.
type inputFlags struct {
	file          string
	fromClipboard bool
	noFetch       bool
}

func (in *inputFlags) fetcher() importer.Fetcher {
	if in.noFetch {
		return nil
	}
	return importer.NewHTTPFetcher()
}

func (in *inputFlags) load(ctx context.Context) (importer.Result, error) {
	switch {
	case in.fromClipboard:
		res, err := importer.FromClipboard(ctx, clipboardSource, in.fetcher())
		if err != nil {
			return importer.Result{}, fmt.Errorf("read clipboard: %w", err)
		}
		return res, nil
	case in.file != "":
		return importer.FromFile(in.file)
	}
	return importer.Result{}, fmt.Errorf("no input: pass -file or -from-clipboard")
}
