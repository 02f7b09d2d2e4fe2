// Package prepare renders the images the way each destination expects them
// before they are uploaded.
package prepare

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// Layout is how an image is placed for a destination. The image is scaled,
// keeping its aspect ratio, to fit in a Width x Height area. With a canvas the
// area is placed at Offset of a white canvas and the image is centered in it.
type Layout struct {
	Width  int
	Height int
	// Canvas is the size of the letterbox canvas, zero means no canvas.
	Canvas image.Point
	Offset image.Point
}

// Layouts of the destinations.
var (
	// Video players play 720p, the image is letterboxed.
	LayoutVideoPlayer = Layout{Width: 1280, Height: 720, Canvas: image.Pt(1280, 720)}
	LayoutImageViewer = Layout{Width: 1920, Height: 1920}
	// Prints are 2048x1440 with the 1920x1080 picture area at (64,69).
	LayoutVRChatPrint = Layout{Width: 1920, Height: 1080, Canvas: image.Pt(2048, 1440), Offset: image.Pt(64, 69)}
)

// LayoutFor returns the layout of a destination.
func LayoutFor(d model.Destination) (Layout, error) {
	switch d {
	case model.DestinationVideoPlayer:
		return LayoutVideoPlayer, nil
	case model.DestinationImageViewer:
		return LayoutImageViewer, nil
	case model.DestinationVRChatPrint:
		return LayoutVRChatPrint, nil
	}
	return Layout{}, fmt.Errorf("unknown destination %q: %w", d, model.ErrNotValid)
}

// Render returns img placed with the layout.
func Render(img image.Image, l Layout) image.Image {
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), l.Width, l.Height)
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	if l.Canvas == (image.Point{}) {
		return resized
	}

	canvas := imaging.New(l.Canvas.X, l.Canvas.Y, color.White)
	pos := l.Offset.Add(image.Pt((l.Width-w)/2, (l.Height-h)/2))
	return imaging.Paste(canvas, resized, pos)
}

// fitSize scales w x h to the largest size that fits in maxW x maxH, small
// images are scaled up.
func fitSize(w, h, maxW, maxH int) (int, int) {
	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	fw := max(1, int(math.Round(float64(w)*ratio)))
	fh := max(1, int(math.Round(float64(h)*ratio)))
	return min(fw, maxW), min(fh, maxH)
}

// PreparerConfig is the configuration of the preparer.
type PreparerConfig struct {
	Destination model.Destination
	// TempDir receives the prepared files, the system temporary dir by default.
	TempDir string
	Logger  log.Logger
}

func (c *PreparerConfig) defaults() error {
	if err := c.Destination.Validate(); err != nil {
		return err
	}

	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "prepare.Preparer", "destination": c.Destination})

	return nil
}

// Preparer writes the image of a file, rendered with the layout of its
// destination, to a temporary PNG.
type Preparer struct {
	layout  Layout
	tempDir string
	logger  log.Logger
}

// NewPreparer returns a new preparer.
func NewPreparer(cfg PreparerConfig) (*Preparer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	layout, err := LayoutFor(cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Preparer{
		layout:  layout,
		tempDir: cfg.TempDir,
		logger:  cfg.Logger,
	}, nil
}

// Prepare renders filePath and returns the path of the prepared PNG, cleanup
// removes it.
func (p *Preparer) Prepare(ctx context.Context, filePath string) (path string, cleanup func(), err error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("could not open image: %w", err)
	}
	out := Render(img, p.layout)

	f, err := os.CreateTemp(p.tempDir, "sendtovrc-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("could not create prepared file: %w", err)
	}
	cleanup = func() {
		if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
			p.logger.Warningf("Could not remove %s: %s", f.Name(), err)
		}
	}

	err = imaging.Encode(f, out, imaging.PNG)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("could not write prepared image: %w", err)
	}

	b := out.Bounds()
	p.logger.Debugf("Prepared %s as %dx%d %s", filePath, b.Dx(), b.Dy(), f.Name())

	return f.Name(), cleanup, nil
}
