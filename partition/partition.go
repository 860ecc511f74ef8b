package partition

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
)

const (
	// DefaultCapacity is the pending stack capacity used when an engine does
	// not set one.
	DefaultCapacity = 64
)

// Strategy selects which pending fragment and cell are dissolved first when
// several pairs intersect.
type Strategy int

const (
	// FirstMatch picks the first intersecting pair in stack order, then cell
	// order.
	FirstMatch Strategy = iota

	// LargestOverlap picks the pair with the largest intersection area. Ties
	// resolve like FirstMatch.
	LargestOverlap
)

func (s Strategy) String() string {
	switch s {
	case LargestOverlap:
		return "largest_overlap"
	default:
		return "first_match"
	}
}

// Cell is a disjoint region of the root together with the indices of the
// nodes influencing it, in discovery order.
type Cell struct {
	Region    geometry.AABB
	Influence Labels
}

// Partitioner decomposes a root box into cells influenced by nodes.
type Partitioner interface {
	Regions(root geometry.AABB, nodes []Node) ([]Cell, error)
}

// Engine computes partitions. The zero value is ready to use. An engine holds
// no state between calls and can be shared by goroutines.
type Engine struct {
	// The maximum number of pending fragments per node. Exceeding it aborts
	// the call.
	Capacity int

	Strategy Strategy

	// Processes nodes in descending influence area order. Node identities in
	// the labels remain the input indices.
	SortByInfluence bool
}

// GetRegions partitions root with a zero Engine.
func GetRegions(root geometry.AABB, nodes []Node) ([]Cell, error) {
	return Engine{}.Regions(root, nodes)
}

// Regions returns the disjoint cells of root with the nodes affecting each of
// them. It either returns a complete partition or an error with no cells.
func (e Engine) Regions(root geometry.AABB, nodes []Node) ([]Cell, error) {
	if err := root.Validate(); err != nil {
		return nil, errors.New("invalid root").
			WithType(geometry.ErrTypeMalformedAABB).
			Wrap(err)
	}

	for i, n := range nodes {
		if err := n.Validate(); err != nil {
			return nil, errors.New("invalid node").
				WithType(ErrTypeMalformedNode).
				WithTag("node", i).
				Wrap(err)
		}
	}

	capacity := e.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	d := dissolver{
		strategy: e.Strategy,
		pending:  NewStack(capacity),
		scratch:  make([]geometry.AABB, 0, 4),
	}

	process := func(i int) error {
		influence, ok := nodes[i].Influence(root)
		if !ok {
			return nil
		}

		if err := d.dissolve(i, influence); err != nil {
			return errors.New("dissolving node influence failed").
				WithType(ErrTypeCapacityExceeded).
				WithTag("node", i).
				WithTag("influence", influence.String()).
				WithTag("cell_count", len(d.cells)).
				Wrap(err)
		}
		return nil
	}

	if e.SortByInfluence {
		for _, i := range InfluenceOrder(root, nodes) {
			if err := process(i); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range nodes {
			if err := process(i); err != nil {
				return nil, err
			}
		}
	}

	return d.cells, nil
}

type dissolver struct {
	strategy Strategy
	pending  *Stack
	cells    []Cell
	scratch  []geometry.AABB
}

// dissolve carves the influence of node into the current cells.
func (d *dissolver) dissolve(node int, influence geometry.AABB) error {
	d.pending.Reset()
	if err := d.pending.Push(influence); err != nil {
		return err
	}

	for d.pending.Len() != 0 {
		pendingIdx, cellIdx, overlap, ok := d.contact()
		if !ok {
			labels := NewLabels(node)
			d.pending.Drain(func(b geometry.AABB) {
				d.cells = append(d.cells, Cell{Region: b, Influence: labels})
			})
			return nil
		}

		pending, _ := d.pending.Get(pendingIdx)
		d.scratch = pending.AppendDifference(d.scratch[:0], overlap)
		for _, b := range d.scratch {
			if err := d.pending.Push(b); err != nil {
				return err
			}
		}

		cell := d.cells[cellIdx]
		d.cells = append(d.cells, Cell{
			Region:    overlap,
			Influence: cell.Influence.Derive(node),
		})

		d.scratch = cell.Region.AppendDifference(d.scratch[:0], overlap)
		for _, b := range d.scratch {
			d.cells = append(d.cells, Cell{Region: b, Influence: cell.Influence})
		}

		d.pending.SwapRemove(pendingIdx)
		d.swapRemoveCell(cellIdx)
	}

	return nil
}

// contact finds the pending fragment and cell to dissolve next.
func (d *dissolver) contact() (pendingIdx, cellIdx int, overlap geometry.AABB, ok bool) {
	bestArea := -1

	for i, p := range d.pending.Slice() {
		for j, c := range d.cells {
			inter, hit := c.Region.Intersection(p)
			if !hit {
				continue
			}

			if d.strategy != LargestOverlap {
				return i, j, inter, true
			}

			if area := inter.Area(); area > bestArea {
				bestArea = area
				pendingIdx, cellIdx, overlap, ok = i, j, inter, true
			}
		}
	}

	return pendingIdx, cellIdx, overlap, ok
}

func (d *dissolver) swapRemoveCell(i int) {
	last := len(d.cells) - 1
	d.cells[i] = d.cells[last]
	d.cells[last] = Cell{}
	d.cells = d.cells[:last]
}
