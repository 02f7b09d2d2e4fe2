package crop_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/app/crop"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/selection"
)

func writeCapture(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 8))
	for x := 0; x < 10; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), A: 255})
		}
	}

	p := filepath.Join(t.TempDir(), "capture.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return p
}

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		gestures  func() []selection.Event
		scale     float64
		expPixels image.Rectangle
		expErr    error
	}{
		"A drag should crop the selected area.": {
			gestures: func() []selection.Event {
				return crop.SelectGestures(crop.Point{X: 2, Y: 1}, crop.Point{X: 6, Y: 5})
			},
			expPixels: image.Rect(2, 1, 6, 5),
		},

		"A reversed drag should crop the same area.": {
			gestures: func() []selection.Event {
				return crop.SelectGestures(crop.Point{X: 6, Y: 5}, crop.Point{X: 2, Y: 1})
			},
			expPixels: image.Rect(2, 1, 6, 5),
		},

		"A corner drag should resize the selection.": {
			gestures: func() []selection.Event {
				evs := crop.SelectGestures(crop.Point{X: 2, Y: 1}, crop.Point{X: 6, Y: 5})
				return append(evs, crop.DragCornerGestures(selection.X2, selection.Y2, crop.Point{X: 8, Y: 7})...)
			},
			expPixels: image.Rect(2, 1, 8, 7),
		},

		"A scaled selection should be mapped to image pixels.": {
			gestures: func() []selection.Event {
				return crop.SelectGestures(crop.Point{X: 1, Y: 0.5}, crop.Point{X: 2.5, Y: 2})
			},
			scale:     2,
			expPixels: image.Rect(2, 1, 5, 4),
		},

		"A selection bigger than the image should be clipped.": {
			gestures: func() []selection.Event {
				return crop.SelectGestures(crop.Point{X: 5, Y: 4}, crop.Point{X: 50, Y: 40})
			},
			expPixels: image.Rect(5, 4, 10, 8),
		},

		"An unfinished selection should fail.": {
			gestures: func() []selection.Event {
				return []selection.Event{selection.StartSelection{X: 1, Y: 1}, selection.MoveSelection{X: 3, Y: 3}}
			},
			expErr: model.ErrNotValid,
		},

		"An empty selection should fail.": {
			gestures: func() []selection.Event {
				return crop.SelectGestures(crop.Point{X: 2, Y: 2}, crop.Point{X: 2, Y: 6})
			},
			expErr: model.ErrNotValid,
		},

		"A selection outside the image should fail.": {
			gestures: func() []selection.Event {
				return crop.SelectGestures(crop.Point{X: 20, Y: 20}, crop.Point{X: 30, Y: 30})
			},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			in := writeCapture(t)
			out := filepath.Join(t.TempDir(), "cropped.png")

			svc, err := crop.NewService(crop.ServiceConfig{})
			require.NoError(err)

			resp, err := svc.Run(context.TODO(), crop.Request{
				InputPath:  in,
				OutputPath: out,
				Gestures:   test.gestures(),
				Scale:      test.scale,
			})

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				return
			}
			require.NoError(err)
			assert.Equal(test.expPixels, resp.Pixels)

			f, err := os.Open(out)
			require.NoError(err)
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			require.NoError(err)
			assert.Equal(test.expPixels.Dx(), cfg.Width)
			assert.Equal(test.expPixels.Dy(), cfg.Height)
		})
	}
}

func TestParseCornerDrag(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    []selection.Event
		expErr bool
	}{
		"A valid corner drag should be parsed.": {
			in:  "x1,y2,3.5,4",
			exp: crop.DragCornerGestures(selection.X1, selection.Y2, crop.Point{X: 3.5, Y: 4}),
		},
		"An unknown handle should fail.": {
			in:     "x3,y2,3,4",
			expErr: true,
		},
		"A missing point should fail.": {
			in:     "x1,y2",
			expErr: true,
		},
		"A bad coordinate should fail.": {
			in:     "x1,y2,a,4",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := crop.ParseCornerDrag(test.in)

			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else if assert.NoError(t, err) {
				assert.Equal(t, test.exp, got)
			}
		})
	}
}
