package pose

import (
	"fmt"
	"math"
)

// JointID identifies a tracked body landmark within a Skeleton.
type JointID int

// Joint is a detected landmark. The zero value is the "not detected" sentinel.
type Joint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"c"`
}

// IsSentinel reports whether j is the (0,0,0) "not detected" marker.
func (j Joint) IsSentinel() bool {
	return j.X == 0 && j.Y == 0 && j.Confidence == 0
}

// Joints maps joint ids to landmarks. A missing id reads as the sentinel.
type Joints map[JointID]Joint

// Get returns the joint for id, or the sentinel if absent.
func (js Joints) Get(id JointID) Joint {
	return js[id]
}

// BBox is an axis-aligned box in normalized frame coordinates.
type BBox struct {
	X1 float64 `json:"x1"`
	X2 float64 `json:"x2"`
	Y1 float64 `json:"y1"`
	Y2 float64 `json:"y2"`
}

// Width returns X2 - X1.
func (b BBox) Width() float64 { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b BBox) Height() float64 { return b.Y2 - b.Y1 }

// Area returns Width * Height.
func (b BBox) Area() float64 { return b.Width() * b.Height() }

// Center returns the midpoint of the box.
func (b BBox) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Aspect returns Width / Height. Callers must check Degenerate first.
func (b BBox) Aspect() float64 { return b.Width() / b.Height() }

// Degenerate reports whether the box has no positive extent on an axis.
func (b BBox) Degenerate() bool {
	w, h := b.Width(), b.Height()
	return !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0)
}

// Span returns the smallest box covering both b and o.
func (b BBox) Span(o BBox) BBox {
	return BBox{
		X1: math.Min(b.X1, o.X1),
		X2: math.Max(b.X2, o.X2),
		Y1: math.Min(b.Y1, o.Y1),
		Y2: math.Max(b.Y2, o.Y2),
	}
}

func (b BBox) String() string {
	return fmt.Sprintf("BBox(x=[%.4f,%.4f] y=[%.4f,%.4f])", b.X1, b.X2, b.Y1, b.Y2)
}

// BBoxOf computes the box enclosing the non-zero joint coordinates.
// Zero coordinates are ignored per axis. With no usable coordinate the
// result is the inverted box {1, 0, 1, 0}, which is Degenerate.
func BBoxOf(js Joints) BBox {
	b := BBox{X1: 1, X2: 0, Y1: 1, Y2: 0}
	for _, j := range js {
		if j.X != 0 {
			b.X1 = math.Min(b.X1, j.X)
			b.X2 = math.Max(b.X2, j.X)
		}
		if j.Y != 0 {
			b.Y1 = math.Min(b.Y1, j.Y)
			b.Y2 = math.Max(b.Y2, j.Y)
		}
	}
	return b
}

// Record is a normalized per-frame observation of one subject.
type Record struct {
	Joints Joints `json:"joints"`
	BBox   BBox   `json:"bbox"`
}

// NewRecord builds a Record whose box is derived from its joints.
func NewRecord(js Joints) Record {
	return Record{Joints: js, BBox: BBoxOf(js)}
}

// Frame is a Record placed on the time axis.
type Frame struct {
	Index int     `json:"index"`
	T1    float64 `json:"t1"`
	T2    float64 `json:"t2"`
	Record
}

// Detected reports whether the frame passes the detection gate for s.
func (f Frame) Detected(s *Skeleton) bool {
	return Detected(f.Joints, s)
}

// Reference is a query pose with no time association.
type Reference struct {
	Name   string `json:"name,omitempty"`
	Joints Joints `json:"joints"`
}

// BBox returns the box computed from the reference's own joints.
func (r Reference) BBox() BBox {
	return BBoxOf(r.Joints)
}

// Record returns the reference as a Record.
func (r Reference) Record() Record {
	return Record{Joints: r.Joints, BBox: r.BBox()}
}
