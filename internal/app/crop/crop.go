package crop

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/selection"
)

// ServiceConfig is the configuration for the crop service.
type ServiceConfig struct {
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Crop"})
	return nil
}

// Service crops captures with the rectangle selected by pointer gestures.
type Service struct {
	logger log.Logger
}

// NewService creates a new crop service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{logger: cfg.Logger}, nil
}

// Request is a crop request.
type Request struct {
	InputPath  string
	OutputPath string
	// Gestures are replayed from an idle selection.
	Gestures []selection.Event
	// Scale is the number of image pixels per selection surface unit, 0 is 1.
	Scale float64
}

// Response is the result of a crop.
type Response struct {
	Selection selection.State
	Bounding  selection.Rect
	Pixels    image.Rectangle
}

// Run replays the gestures and writes the selected area of the input image to
// the output path, the output format is taken from its extension.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	state := selection.ReduceAll(selection.Idle{}, req.Gestures...)
	if _, ok := state.(selection.Selected); !ok {
		return nil, fmt.Errorf("gestures did not finish a selection: %w", model.ErrNotValid)
	}

	rect := selection.Bounding(state)
	if rect.Empty() {
		return nil, fmt.Errorf("empty selection: %w", model.ErrNotValid)
	}

	img, err := imaging.Open(req.InputPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}

	px := rect.Image(req.Scale).Intersect(img.Bounds())
	if px.Empty() {
		return nil, fmt.Errorf("selection %v is outside the image %v: %w", rect.Image(req.Scale), img.Bounds(), model.ErrNotValid)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := imaging.Save(imaging.Crop(img, px), req.OutputPath); err != nil {
		return nil, fmt.Errorf("could not save cropped image: %w", err)
	}

	s.logger.Infof("Cropped %s to %dx%d", req.InputPath, px.Dx(), px.Dy())

	return &Response{Selection: state, Bounding: rect, Pixels: px}, nil
}

// SelectGestures returns the gestures of a pointer drag from one point to
// another.
func SelectGestures(from, to Point) []selection.Event {
	return []selection.Event{
		selection.StartSelection{X: from.X, Y: from.Y},
		selection.MoveSelection{X: to.X, Y: to.Y},
		selection.FinishSelection{X: to.X, Y: to.Y},
	}
}

// DragCornerGestures returns the gestures of dragging a corner handle of a
// finished selection. xAssign and yAssign are the corner coordinates the
// handle moves (x1|x2 and y1|y2).
func DragCornerGestures(xAssign, yAssign string, to Point) []selection.Event {
	return []selection.Event{
		selection.StartModifyCorner{HandleID: xAssign + yAssign, XAssign: xAssign, YAssign: yAssign},
		selection.MoveSelection{X: to.X, Y: to.Y},
		selection.FinishModifyCorner{},
	}
}

// Point is a pointer position on the selection surface.
type Point struct {
	X, Y float64
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid point %q, expected x,y: %w", s, model.ErrNotValid)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q x: %w", s, model.ErrNotValid)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q y: %w", s, model.ErrNotValid)
	}

	return Point{X: x, Y: y}, nil
}

// ParseCornerDrag parses "<x1|x2>,<y1|y2>,x,y".
func ParseCornerDrag(s string) ([]selection.Event, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid corner drag %q, expected x1|x2,y1|y2,x,y: %w", s, model.ErrNotValid)
	}

	xAssign, yAssign := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if xAssign != selection.X1 && xAssign != selection.X2 {
		return nil, fmt.Errorf("invalid corner drag %q x handle: %w", s, model.ErrNotValid)
	}
	if yAssign != selection.Y1 && yAssign != selection.Y2 {
		return nil, fmt.Errorf("invalid corner drag %q y handle: %w", s, model.ErrNotValid)
	}

	to, err := ParsePoint(parts[2])
	if err != nil {
		return nil, err
	}

	return DragCornerGestures(xAssign, yAssign, to), nil
}
