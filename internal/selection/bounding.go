package selection

import (
	"image"
	"math"
)

// Rect is a normalized rectangle, Top <= Bottom and Left <= Right.
type Rect struct {
	Top, Left, Right, Bottom float64
}

// Bounding returns the normalized rectangle of a selection state, Idle returns
// the zero rectangle.
func Bounding(s State) Rect {
	var c Corners
	switch s := s.(type) {
	case Selecting:
		c = s.Corners
	case Selected:
		c = s.Corners
	case ModifyingCorner:
		c = s.Corners
	default:
		return Rect{}
	}

	return Rect{
		Top:    math.Min(c.Y1, c.Y2),
		Left:   math.Min(c.X1, c.X2),
		Right:  math.Max(c.X1, c.X2),
		Bottom: math.Max(c.Y1, c.Y2),
	}
}

// Width of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Empty returns true when the rectangle has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Image returns the pixel rectangle covered by r, scaled by scale (surface
// pixels per image pixel is 1/scale). Fractional edges are expanded outwards.
func (r Rect) Image(scale float64) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	return image.Rect(
		int(math.Floor(r.Left*scale)),
		int(math.Floor(r.Top*scale)),
		int(math.Ceil(r.Right*scale)),
		int(math.Ceil(r.Bottom*scale)),
	)
}
