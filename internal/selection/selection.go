// Package selection implements the rectangle selection gestures used to crop a
// capture. Coordinates are raw pointer coordinates in the selection surface
// local space, corners are never normalized, use Bounding to read them.
package selection

// Axis assignment of a dragged corner handle.
const (
	X1 = "x1"
	X2 = "x2"
	Y1 = "y1"
	Y2 = "y2"
)

// State is one of Idle, Selecting, Selected or ModifyingCorner.
type State interface{ state() }

// Corners are the two stored corners of a selection.
type Corners struct {
	X1, Y1, X2, Y2 float64
}

// Idle has no selection.
type Idle struct{}

// Selecting is a selection being drawn, (X1,Y1) is the fixed corner.
type Selecting struct{ Corners }

// Selected is a finished selection.
type Selected struct{ Corners }

// ModifyingCorner is a finished selection whose corner handle is being dragged.
type ModifyingCorner struct {
	Corners
	HandleID string
	XAssign  string
	YAssign  string
}

func (Idle) state()            {}
func (Selecting) state()       {}
func (Selected) state()        {}
func (ModifyingCorner) state() {}

// Event is one of the pointer gesture events.
type Event interface{ event() }

// StartSelection starts drawing a new selection at (X,Y).
type StartSelection struct{ X, Y float64 }

// MoveSelection moves the pointer to (X,Y).
type MoveSelection struct{ X, Y float64 }

// FinishSelection releases the pointer.
type FinishSelection struct{ X, Y float64 }

// StartModifyCorner grabs a corner handle, XAssign/YAssign tell which stored
// coordinates the handle controls.
type StartModifyCorner struct {
	HandleID string
	XAssign  string
	YAssign  string
}

// FinishModifyCorner releases a corner handle.
type FinishModifyCorner struct{}

func (StartSelection) event()     {}
func (MoveSelection) event()      {}
func (FinishSelection) event()    {}
func (StartModifyCorner) event()  {}
func (FinishModifyCorner) event() {}

// Reduce returns the state after applying ev to s. Events not accepted by the
// current state return s unchanged.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case StartSelection:
		switch s.(type) {
		case Idle, Selected:
			return Selecting{Corners{X1: ev.X, Y1: ev.Y, X2: ev.X, Y2: ev.Y}}
		}

	case MoveSelection:
		switch s := s.(type) {
		case Selecting:
			return Selecting{Corners{X1: s.X1, Y1: s.Y1, X2: ev.X, Y2: ev.Y}}
		case ModifyingCorner:
			c := s.Corners
			switch s.XAssign {
			case X1:
				c.X1 = ev.X
			case X2:
				c.X2 = ev.X
			}
			switch s.YAssign {
			case Y1:
				c.Y1 = ev.Y
			case Y2:
				c.Y2 = ev.Y
			}
			s.Corners = c
			return s
		}

	case FinishSelection:
		switch s := s.(type) {
		case Selecting:
			return Selected{s.Corners}
		case ModifyingCorner:
			return Selected{s.Corners}
		}

	case StartModifyCorner:
		if s, ok := s.(Selected); ok {
			return ModifyingCorner{
				Corners:  s.Corners,
				HandleID: ev.HandleID,
				XAssign:  ev.XAssign,
				YAssign:  ev.YAssign,
			}
		}

	case FinishModifyCorner:
		if s, ok := s.(ModifyingCorner); ok {
			return Selected{s.Corners}
		}
	}

	return s
}

// ReduceAll applies all the events in order.
func ReduceAll(s State, evs ...Event) State {
	for _, ev := range evs {
		s = Reduce(s, ev)
	}
	return s
}
