package partition

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
)

// Stack is a fixed capacity LIFO of boxes used as per-node scratch space while
// dissolving. Its backing array is allocated once and reused between nodes.
type Stack struct {
	items []geometry.AABB
}

func NewStack(capacity int) *Stack {
	if capacity < 1 {
		capacity = 1
	}

	return &Stack{
		items: make([]geometry.AABB, 0, capacity),
	}
}

// Push adds b on top of the stack. Pushing on a full stack returns a
// capacity exceeded error and leaves the stack untouched.
func (s *Stack) Push(b geometry.AABB) error {
	if len(s.items) == cap(s.items) {
		return errors.New("stack overflow").
			WithType(ErrTypeCapacityExceeded).
			WithTag("capacity", cap(s.items))
	}

	s.items = append(s.items, b)
	return nil
}

func (s *Stack) Pop() (geometry.AABB, bool) {
	if len(s.items) == 0 {
		return geometry.AABB{}, false
	}

	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, true
}

func (s *Stack) Get(i int) (geometry.AABB, bool) {
	if i < 0 || i >= len(s.items) {
		return geometry.AABB{}, false
	}
	return s.items[i], true
}

// SwapRemove removes the item at i by moving the top item into its place. It
// panics when i is out of range.
func (s *Stack) SwapRemove(i int) geometry.AABB {
	last := len(s.items) - 1
	removed := s.items[i]
	s.items[i] = s.items[last]
	s.items = s.items[:last]
	return removed
}

func (s *Stack) Len() int {
	return len(s.items)
}

func (s *Stack) Cap() int {
	return cap(s.items)
}

// Slice returns a read only view of the stack, bottom first. The view is only
// valid until the next mutation.
func (s *Stack) Slice() []geometry.AABB {
	return s.items[:len(s.items):len(s.items)]
}

// Drain pops every item, calling fn in pop order.
func (s *Stack) Drain(fn func(geometry.AABB)) {
	for {
		b, ok := s.Pop()
		if !ok {
			return
		}
		fn(b)
	}
}

func (s *Stack) Reset() {
	s.items = s.items[:0]
}
