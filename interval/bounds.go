package interval

import (
	"fmt"
	"math"
)

// Bounds is the constraint satisfied by interval bounds types. Start and End
// give the time range; Span returns the smallest bounds covering both.
type Bounds[B any] interface {
	comparable
	Start() float64
	End() float64
	Span(other B) B
}

// Bounds1D is a pure time range [T1, T2].
type Bounds1D struct {
	T1 float64
	T2 float64
}

// Start implements Bounds.
func (b Bounds1D) Start() float64 { return b.T1 }

// End implements Bounds.
func (b Bounds1D) End() float64 { return b.T2 }

// Span implements Bounds.
func (b Bounds1D) Span(o Bounds1D) Bounds1D {
	return Bounds1D{T1: math.Min(b.T1, o.T1), T2: math.Max(b.T2, o.T2)}
}

func (b Bounds1D) String() string {
	return fmt.Sprintf("[%g, %g]", b.T1, b.T2)
}

// Bounds3D is a time range plus an axis-aligned spatial box.
type Bounds3D struct {
	T1 float64
	T2 float64
	X1 float64
	X2 float64
	Y1 float64
	Y2 float64
}

// Start implements Bounds.
func (b Bounds3D) Start() float64 { return b.T1 }

// End implements Bounds.
func (b Bounds3D) End() float64 { return b.T2 }

// Span implements Bounds. Both the time range and the box are spanned.
func (b Bounds3D) Span(o Bounds3D) Bounds3D {
	return Bounds3D{
		T1: math.Min(b.T1, o.T1),
		T2: math.Max(b.T2, o.T2),
		X1: math.Min(b.X1, o.X1),
		X2: math.Max(b.X2, o.X2),
		Y1: math.Min(b.Y1, o.Y1),
		Y2: math.Max(b.Y2, o.Y2),
	}
}

func (b Bounds3D) String() string {
	return fmt.Sprintf("[%g, %g] x=[%g, %g] y=[%g, %g]", b.T1, b.T2, b.X1, b.X2, b.Y1, b.Y2)
}

// Distance returns the temporal gap between a and b: 0 if they overlap or
// touch, otherwise the length of the empty span separating them.
func Distance[B Bounds[B]](a, b B) float64 {
	switch {
	case b.Start() > a.End():
		return b.Start() - a.End()
	case a.Start() > b.End():
		return a.Start() - b.End()
	default:
		return 0
	}
}
