package partition

import (
	"fmt"
	"slices"
)

type labelBuffer struct {
	items []int
}

// Labels is an append-only list of node indices whose storage is shared
// between the handles derived from it.
//
// Deriving from the handle that owns the tail of the shared buffer appends in
// place. Deriving from any other handle copies its prefix first, so a handle
// always reads exactly the indices it was built with. Handles are values and
// may be copied freely, but deriving the same handle from several goroutines
// at once is not supported.
type Labels struct {
	buf *labelBuffer
	n   int
}

// NewLabels returns labels holding a copy of indices.
func NewLabels(indices ...int) Labels {
	items := make([]int, len(indices), len(indices)+1)
	copy(items, indices)

	return Labels{
		buf: &labelBuffer{items: items},
		n:   len(items),
	}
}

// Derive returns labels equal to l with index appended. l is left unchanged.
func (l Labels) Derive(index int) Labels {
	if l.buf != nil && len(l.buf.items) == l.n {
		l.buf.items = append(l.buf.items, index)
		return Labels{buf: l.buf, n: l.n + 1}
	}

	items := make([]int, l.n, l.n*2+1)
	copy(items, l.Slice())
	items = append(items, index)

	return Labels{
		buf: &labelBuffer{items: items},
		n:   len(items),
	}
}

func (l Labels) Len() int {
	return l.n
}

func (l Labels) At(i int) int {
	return l.Slice()[i]
}

func (l Labels) Contains(index int) bool {
	return slices.Contains(l.Slice(), index)
}

// Slice returns the indices viewed by l. The returned slice shares storage
// with other handles and must not be modified.
func (l Labels) Slice() []int {
	if l.buf == nil {
		return nil
	}
	return l.buf.items[:l.n:l.n]
}

func (l Labels) String() string {
	return fmt.Sprint(l.Slice())
}
