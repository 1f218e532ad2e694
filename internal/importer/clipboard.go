package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Source exposes the clipboard flavours the importer understands. Each method
// returns an empty payload when that flavour is absent.
type Source interface {
	ReadImage() ([]byte, error)
	ReadHTML() (string, error)
	ReadText() (string, error)
}

// FromClipboard tries, in order, a raw image flavour, an <img> inside HTML
// and finally text holding a data URL or image URL. fetch may be nil, in which
// case remote URLs are skipped.
func FromClipboard(ctx context.Context, src Source, fetch Fetcher) (Result, error) {
	var errs []error

	if data, err := src.ReadImage(); err != nil {
		errs = append(errs, fmt.Errorf("image flavour: %w", err))
	} else if len(data) > 0 {
		res, err := FromBytes(data, "clipboard image")
		if err == nil {
			return res, nil
		}
		errs = append(errs, err)
	}

	if frag, err := src.ReadHTML(); err != nil {
		errs = append(errs, fmt.Errorf("html flavour: %w", err))
	} else {
		for _, ref := range ImageSources(frag) {
			res, err := fromReference(ctx, ref, "clipboard html", fetch)
			if err == nil {
				return res, nil
			}
			errs = append(errs, err)
		}
	}

	if text, err := src.ReadText(); err != nil {
		errs = append(errs, fmt.Errorf("text flavour: %w", err))
	} else if ref := strings.TrimSpace(text); ref != "" {
		res, err := fromReference(ctx, ref, "clipboard text", fetch)
		if err == nil {
			return res, nil
		}
		errs = append(errs, err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(errs) == 0 {
		return Result{}, fmt.Errorf("clipboard: %w", ErrNoImage)
	}
	return Result{}, fmt.Errorf("%w: %w", ErrNoImage, errors.Join(errs...))
}

// fromReference resolves a data URL or image URL.
func fromReference(ctx context.Context, ref, source string, fetch Fetcher) (Result, error) {
	if hasPrefixFold(ref, "data:") {
		data, err := DecodeDataURL(ref)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", source, err)
		}
		return FromBytes(data, source)
	}
	if !IsImageURL(ref) {
		return Result{}, fmt.Errorf("%s: %q is not an image reference", source, truncate(ref, 64))
	}
	if fetch == nil {
		return Result{}, fmt.Errorf("%s: remote fetch disabled", source)
	}
	data, err := fetch.Fetch(ctx, ref)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", source, err)
	}
	return FromBytes(data, ref)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
