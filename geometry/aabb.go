package geometry

import (
	"fmt"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// ErrTypeMalformedAABB is the error type returned when a box has
	// left > right or top > bottom.
	ErrTypeMalformedAABB = "malformed_aabb"
)

// AABB is an axis-aligned bounding box covering the half-open rectangle
// [Left, Right) x [Top, Bottom). Width, Height and Area overflow for spans
// larger than math.MaxInt. Boxes built with New never have such spans.
type AABB struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// New returns the box at (x, y) with the given size. Coordinates saturate at
// the int range instead of wrapping.
func New(x, y, width, height int) (AABB, error) {
	if width < 0 || height < 0 {
		return AABB{}, errors.New("negative aabb size").
			WithType(ErrTypeMalformedAABB).
			WithTag("width", width).
			WithTag("height", height)
	}

	return AABB{
		Left:   x,
		Top:    y,
		Right:  SaturatingAdd(x, width),
		Bottom: SaturatingAdd(y, height),
	}, nil
}

// MustNew is like New but panics on a negative size.
func MustNew(x, y, width, height int) AABB {
	b, err := New(x, y, width, height)
	if err != nil {
		panic(err)
	}
	return b
}

// Validate returns an error when the box edges are inverted.
func (b AABB) Validate() error {
	if b.Left > b.Right || b.Top > b.Bottom {
		return errors.New("inverted aabb edges").
			WithType(ErrTypeMalformedAABB).
			WithTag("aabb", b.String())
	}
	return nil
}

func (b AABB) Width() int {
	return b.Right - b.Left
}

func (b AABB) Height() int {
	return b.Bottom - b.Top
}

func (b AABB) Area() int {
	return b.Width() * b.Height()
}

// IsEmpty reports whether the box is a line or a point.
func (b AABB) IsEmpty() bool {
	return b.Left == b.Right || b.Top == b.Bottom
}

// Contains reports whether other lies within b, edges included.
func (b AABB) Contains(other AABB) bool {
	return b.Left <= other.Left &&
		b.Top <= other.Top &&
		b.Right >= other.Right &&
		b.Bottom >= other.Bottom
}

func (b AABB) ContainsPoint(x, y int) bool {
	return x >= b.Left && x < b.Right && y >= b.Top && y < b.Bottom
}

// Intersects reports whether the open intervals of both boxes overlap on
// both axes. Boxes that only share an edge do not intersect.
func (b AABB) Intersects(other AABB) bool {
	xIntersect := b.Right > other.Left && b.Left < other.Right
	yIntersect := b.Bottom > other.Top && b.Top < other.Bottom
	return xIntersect && yIntersect
}

// Intersection returns the largest box covered by both b and other.
func (b AABB) Intersection(other AABB) (AABB, bool) {
	if !b.Intersects(other) {
		return AABB{}, false
	}

	return AABB{
		Left:   max(b.Left, other.Left),
		Top:    max(b.Top, other.Top),
		Right:  min(b.Right, other.Right),
		Bottom: min(b.Bottom, other.Bottom),
	}, true
}

// Difference returns up to 4 boxes covering b minus its intersection with
// other.
func (b AABB) Difference(other AABB) []AABB {
	return b.AppendDifference(make([]AABB, 0, 4), other)
}

// AppendDifference appends the pieces of b minus other to dst and returns the
// extended slice. Pieces are chopped in a fixed order: top strip, bottom
// strip, then left and right strips of the remaining band. Nothing is
// appended when the boxes are disjoint.
func (b AABB) AppendDifference(dst []AABB, other AABB) []AABB {
	if !b.Intersects(other) {
		return dst
	}

	base := b

	if base.Top < other.Top {
		piece := base
		piece.Bottom = other.Top
		dst = append(dst, piece)
		base.Top = other.Top
	}

	if base.Bottom > other.Bottom {
		piece := base
		piece.Top = other.Bottom
		dst = append(dst, piece)
		base.Bottom = other.Bottom
	}

	if base.Left < other.Left {
		piece := base
		piece.Right = other.Left
		dst = append(dst, piece)
		base.Left = other.Left
	}

	if base.Right > other.Right {
		piece := base
		piece.Left = other.Right
		dst = append(dst, piece)
		base.Right = other.Right
	}

	return dst
}

func (b AABB) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", b.Left, b.Right, b.Top, b.Bottom)
}

// SaturatingAdd returns a + b clamped to the int range.
func SaturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}

// SaturatingSub returns a - b clamped to the int range.
func SaturatingSub(a, b int) int {
	if b < 0 && a > math.MaxInt+b {
		return math.MaxInt
	}
	if b > 0 && a < math.MinInt+b {
		return math.MinInt
	}
	return a - b
}
