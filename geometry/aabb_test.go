package geometry

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("builds edges from position and size", func(t *testing.T) {
		b, err := New(10, 20, 30, 40)
		require.NoError(t, err)
		require.Equal(t, AABB{Left: 10, Top: 20, Right: 40, Bottom: 60}, b)
		require.Equal(t, 1200, b.Area())
	})

	t.Run("negative size is malformed", func(t *testing.T) {
		_, err := New(0, 0, -1, 10)
		require.Error(t, err)
		require.Equal(t, ErrTypeMalformedAABB, errors.Type(err))
	})

	t.Run("must new panics on negative size", func(t *testing.T) {
		require.Panics(t, func() { MustNew(0, 0, 10, -1) })
	})

	t.Run("size saturates", func(t *testing.T) {
		b := MustNew(math.MaxInt-5, 0, 10, 10)
		require.Equal(t, math.MaxInt, b.Right)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, MustNew(0, 0, 0, 0).Validate())
	require.NoError(t, AABB{Left: -5, Top: -5, Right: 5, Bottom: 5}.Validate())

	err := AABB{Left: 5, Right: 4}.Validate()
	require.Equal(t, ErrTypeMalformedAABB, errors.Type(err))

	err = AABB{Top: 5, Bottom: 4}.Validate()
	require.Equal(t, ErrTypeMalformedAABB, errors.Type(err))
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		box   AABB
		empty bool
	}{
		{name: "point", box: MustNew(3, 3, 0, 0), empty: true},
		{name: "horizontal line", box: MustNew(0, 5, 10, 0), empty: true},
		{name: "vertical line", box: MustNew(5, 0, 0, 10), empty: true},
		{name: "unit box", box: MustNew(0, 0, 1, 1)},
		{name: "negative coordinates", box: AABB{Left: -10, Top: -10, Right: -5, Bottom: -5}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.empty, test.box.IsEmpty())
		})
	}
}

func TestIntersection(t *testing.T) {
	base := MustNew(50, 50, 100, 100)

	normal, ok := base.Intersection(MustNew(30, 30, 50, 50))
	require.True(t, ok)
	require.Equal(t, MustNew(50, 50, 30, 30), normal)

	inverted, ok := MustNew(30, 30, 50, 50).Intersection(base)
	require.True(t, ok)
	require.Equal(t, normal, inverted)

	_, ok = base.Intersection(MustNew(0, 0, 40, 40))
	require.False(t, ok)

	contained, ok := MustNew(75, 75, 25, 25).Intersection(base)
	require.True(t, ok)
	contained2, ok := base.Intersection(MustNew(75, 75, 25, 25))
	require.True(t, ok)
	require.Equal(t, contained, contained2)

	t.Run("shared edge is not an intersection", func(t *testing.T) {
		_, ok := base.Intersection(MustNew(150, 50, 10, 10))
		require.False(t, ok)
	})
}

func TestIntersectionIsCommutative(t *testing.T) {
	boxes := testBoxes()

	for _, a := range boxes {
		for _, b := range boxes {
			ab, okAB := a.Intersection(b)
			ba, okBA := b.Intersection(a)
			require.Equal(t, okAB, okBA, "%s %s", a, b)
			require.Equal(t, ab, ba, "%s %s", a, b)
		}
	}
}

func TestContains(t *testing.T) {
	base := MustNew(50, 50, 100, 100)

	require.True(t, base.Contains(MustNew(60, 60, 20, 20)))
	require.False(t, base.Contains(MustNew(0, 0, 40, 40)))
	require.False(t, base.Contains(MustNew(25, 25, 75, 75)))

	for _, b := range testBoxes() {
		require.True(t, b.Contains(b), "%s", b)
	}
}

func TestContainsPoint(t *testing.T) {
	b := MustNew(0, 0, 10, 10)

	require.True(t, b.ContainsPoint(0, 0))
	require.True(t, b.ContainsPoint(9, 9))
	require.False(t, b.ContainsPoint(10, 5))
	require.False(t, b.ContainsPoint(5, 10))
	require.False(t, b.ContainsPoint(-1, 5))
}

func TestDifference(t *testing.T) {
	base := MustNew(50, 50, 50, 50)

	t.Run("inner box gives four pieces in chopping order", func(t *testing.T) {
		res := base.Difference(MustNew(60, 60, 20, 20))
		require.Equal(t, []AABB{
			{Left: 50, Right: 100, Top: 50, Bottom: 60},
			{Left: 50, Right: 100, Top: 80, Bottom: 100},
			{Left: 50, Right: 60, Top: 60, Bottom: 80},
			{Left: 80, Right: 100, Top: 60, Bottom: 80},
		}, res)
	})

	t.Run("disjoint box gives nothing", func(t *testing.T) {
		require.Empty(t, base.Difference(MustNew(0, 0, 40, 40)))
	})

	t.Run("corner", func(t *testing.T) {
		res := base.Difference(MustNew(75, 75, 25, 25))
		require.Equal(t, []AABB{
			{Left: 50, Right: 100, Top: 50, Bottom: 75},
			{Left: 50, Right: 75, Top: 75, Bottom: 100},
		}, res)
	})

	t.Run("full width band", func(t *testing.T) {
		res := base.Difference(MustNew(50, 75, 50, 25))
		require.Equal(t, []AABB{
			{Left: 50, Right: 100, Top: 50, Bottom: 75},
		}, res)
	})

	t.Run("itself", func(t *testing.T) {
		require.Empty(t, base.Difference(base))
	})

	t.Run("append reuses destination", func(t *testing.T) {
		buf := make([]AABB, 0, 8)
		buf = base.AppendDifference(buf, MustNew(60, 60, 20, 20))
		buf = base.AppendDifference(buf, MustNew(75, 75, 25, 25))
		require.Len(t, buf, 6)
	})
}

func TestDifferenceReconstructsArea(t *testing.T) {
	boxes := testBoxes()

	for _, a := range boxes {
		for _, b := range boxes {
			inter, ok := a.Intersection(b)
			pieces := a.Difference(b)

			if !ok {
				require.Empty(t, pieces, "%s %s", a, b)
				continue
			}

			require.LessOrEqual(t, len(pieces), 4)

			area := inter.Area()
			for i, p := range pieces {
				require.NoError(t, p.Validate())
				require.True(t, a.Contains(p), "%s does not contain %s", a, p)
				require.False(t, p.Intersects(inter), "%s overlaps %s", p, inter)

				for _, q := range pieces[i+1:] {
					require.False(t, p.Intersects(q), "%s overlaps %s", p, q)
				}
				area += p.Area()
			}
			require.Equal(t, a.Area(), area, "%s %s", a, b)
		}
	}
}

func TestSaturating(t *testing.T) {
	require.Equal(t, 3, SaturatingAdd(1, 2))
	require.Equal(t, math.MaxInt, SaturatingAdd(math.MaxInt, 1))
	require.Equal(t, math.MinInt, SaturatingAdd(math.MinInt, -1))
	require.Equal(t, math.MaxInt, SaturatingAdd(10, math.MaxInt))
	require.Equal(t, -1, SaturatingAdd(math.MaxInt, math.MinInt))

	require.Equal(t, -1, SaturatingSub(1, 2))
	require.Equal(t, math.MinInt, SaturatingSub(math.MinInt, 1))
	require.Equal(t, math.MaxInt, SaturatingSub(math.MaxInt, -1))
	require.Equal(t, math.MaxInt, SaturatingSub(0, math.MinInt))
	require.Equal(t, math.MinInt, SaturatingSub(-10, math.MaxInt))
}

func testBoxes() []AABB {
	var boxes []AABB
	for x := 0; x <= 40; x += 10 {
		for y := 0; y <= 40; y += 20 {
			for _, size := range [][2]int{{0, 10}, {10, 0}, {10, 10}, {30, 20}, {50, 50}} {
				boxes = append(boxes, MustNew(x, y, size[0], size[1]))
			}
		}
	}
	return boxes
}
