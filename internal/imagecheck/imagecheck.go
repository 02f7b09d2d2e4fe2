// Package imagecheck tells if a file is an image the app can send.
package imagecheck

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/slok/sendtovrc/internal/log"
)

// Validity is the result of checking a file.
type Validity string

const (
	// Pending is the validity of a file that has not been checked yet.
	Pending Validity = "pending"
	Valid   Validity = "valid"
	Invalid Validity = "invalid"
)

// Image is a decoded image header.
type Image struct {
	Format string
	Width  int
	Height int
}

// Checker checks image files.
type Checker struct {
	logger log.Logger
}

// NewChecker returns a new checker.
func NewChecker(logger log.Logger) *Checker {
	if logger == nil {
		logger = log.Noop
	}
	return &Checker{logger: logger.WithValues(log.Kv{"svc": "imagecheck.Checker"})}
}

// Check decodes the header of the file. Files that can't be opened or decoded
// are invalid, that is not an error.
func (c *Checker) Check(ctx context.Context, path string) (Validity, *Image) {
	if ctx.Err() != nil {
		return Pending, nil
	}

	f, err := os.Open(path)
	if err != nil {
		c.logger.Debugf("Could not open %s: %s", path, err)
		return Invalid, nil
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		c.logger.Debugf("Could not decode %s: %s", path, err)
		return Invalid, nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Invalid, nil
	}

	return Valid, &Image{Format: format, Width: cfg.Width, Height: cfg.Height}
}
