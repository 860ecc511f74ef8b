// Package worley samples a distance field over a partition: every point of the
// root holds the distance to the nearest node influencing it, which gives
// Worley (cellular) noise restricted to node influence areas.
package worley

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
	"github.com/aukilabs/shatter/partition"
)

const (
	ErrTypeFieldTooLarge = "field_too_large"

	// MaxFieldPixels is the largest root area a field is computed for.
	MaxFieldPixels = 4096 * 4096
)

// Field is a row-major grid of distances covering a root box.
type Field struct {
	Origin geometry.AABB
	Width  int
	Height int
	Values []uint32
}

// NewField computes the distance field of root from a partition of root.
// Points covered by no cell hold 0.
func NewField(root geometry.AABB, nodes []partition.Node, cells []partition.Cell) (Field, error) {
	if err := root.Validate(); err != nil {
		return Field{}, errors.New("invalid field root").
			WithType(geometry.ErrTypeMalformedAABB).
			Wrap(err)
	}

	// Spans wider than math.MaxInt wrap to negative sizes.
	width, height := root.Width(), root.Height()
	if width < 0 || height < 0 || (width > 0 && height > MaxFieldPixels/width) {
		return Field{}, errors.New("field too large").
			WithType(ErrTypeFieldTooLarge).
			WithTag("width", width).
			WithTag("height", height)
	}

	f := Field{
		Origin: root,
		Width:  width,
		Height: height,
		Values: make([]uint32, width*height),
	}

	for _, c := range cells {
		region, ok := c.Region.Intersection(root)
		if !ok || region.IsEmpty() {
			continue
		}

		influence := c.Influence.Slice()
		for y := region.Top; y < region.Bottom; y++ {
			row := (y - root.Top) * width
			for x := region.Left; x < region.Right; x++ {
				f.Values[row+x-root.Left] = nearest(nodes, influence, x, y)
			}
		}
	}

	return f, nil
}

// At returns the distance at (x, y) in root coordinates, or 0 outside of it.
func (f Field) At(x, y int) uint32 {
	if !f.Origin.ContainsPoint(x, y) {
		return 0
	}
	return f.Values[(y-f.Origin.Top)*f.Width+x-f.Origin.Left]
}

func (f Field) Max() uint32 {
	var m uint32
	for _, v := range f.Values {
		m = max(m, v)
	}
	return m
}

func nearest(nodes []partition.Node, influence []int, x, y int) uint32 {
	best := math.Inf(1)

	for _, i := range influence {
		n := nodes[i]
		dx := float64(n.X) - float64(x)
		dy := float64(n.Y) - float64(y)
		best = min(best, dx*dx+dy*dy)
	}

	if math.IsInf(best, 1) {
		return 0
	}
	return uint32(min(math.Sqrt(best), math.MaxUint32))
}
