package appstate

import (
	"errors"
	"fmt"

	"github.com/example/panview/internal/clipboard"
	"github.com/example/panview/internal/importer"
)

const (
	msgReady          = "Ready"
	msgLoading        = "Loading image..."
	msgPasting        = "Pasting image..."
	msgLoadFailed     = "Failed to load image"
	msgNoClipboard    = "No image in clipboard. Use -file to open one."
	msgClipboardDown  = "Clipboard unavailable"
	msgUnlockToPaste  = "Unlock to paste images"
	msgUnlockToImport = "Unlock to import images"
	msgNothingToLoad  = "No file to reload"
	msgLocked         = "Locked"
)

type statusLine struct {
	text  string
	alert bool
}

func info(text string) statusLine  { return statusLine{text: text} }
func alert(text string) statusLine { return statusLine{text: text, alert: true} }

func zoomStatus(percent int) statusLine { return info(fmt.Sprintf("%d%%", percent)) }

// failureStatus picks the status shown when a load of the given kind fails.
func failureStatus(kind loadKind, err error) statusLine {
	if kind == loadPaste {
		switch {
		case errors.Is(err, clipboard.ErrUnavailable):
			return alert(msgClipboardDown)
		case errors.Is(err, importer.ErrNoImage):
			return alert(msgNoClipboard)
		}
	}
	return alert(msgLoadFailed)
}
