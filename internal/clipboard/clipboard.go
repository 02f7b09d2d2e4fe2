// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// System is the operating system clipboard.
type System struct{}

// NewSystem returns the system clipboard, it fails when the system has no
// clipboard tool available (e.g. xclip or wl-copy on Linux).
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("system clipboard is not supported")
	}
	return &System{}, nil
}

// WriteText replaces the clipboard contents.
func (System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("could not write to clipboard: %w", err)
	}
	return nil
}

// Noop is a clipboard that discards everything.
const Noop = noop(0)

type noop int

func (noop) WriteText(string) error { return nil }
