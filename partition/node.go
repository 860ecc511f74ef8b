package partition

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
)

// Node is an anchor point with an optional rectangular area of influence.
// An unbounded node influences the whole root.
type Node struct {
	X          int
	Y          int
	HalfWidth  int
	HalfHeight int
	Bounded    bool
}

// NewNode returns a node with infinite influence.
func NewNode(x, y int) Node {
	return Node{X: x, Y: y}
}

func NewSquareNode(x, y, halfExtent int) Node {
	return NewRectNode(x, y, halfExtent, halfExtent)
}

func NewRectNode(x, y, halfWidth, halfHeight int) Node {
	return Node{
		X:          x,
		Y:          y,
		HalfWidth:  halfWidth,
		HalfHeight: halfHeight,
		Bounded:    true,
	}
}

func (n Node) Validate() error {
	if n.Bounded && (n.HalfWidth < 0 || n.HalfHeight < 0) {
		return errors.New("negative node half extents").
			WithType(ErrTypeMalformedNode).
			WithTag("half_width", n.HalfWidth).
			WithTag("half_height", n.HalfHeight)
	}
	return nil
}

// Bounds returns the unclipped influence box of a bounded node.
func (n Node) Bounds() geometry.AABB {
	return geometry.AABB{
		Left:   geometry.SaturatingSub(n.X, n.HalfWidth),
		Top:    geometry.SaturatingSub(n.Y, n.HalfHeight),
		Right:  geometry.SaturatingAdd(n.X, n.HalfWidth),
		Bottom: geometry.SaturatingAdd(n.Y, n.HalfHeight),
	}
}

// Influence returns the node influence clipped to root. It returns false when
// the node does not affect root.
func (n Node) Influence(root geometry.AABB) (geometry.AABB, bool) {
	if !n.Bounded {
		return root, true
	}
	return root.Intersection(n.Bounds())
}
