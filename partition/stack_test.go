package partition

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	a := geometry.MustNew(0, 0, 1, 1)
	b := geometry.MustNew(1, 1, 1, 1)
	c := geometry.MustNew(2, 2, 1, 1)

	t.Run("push and pop are lifo", func(t *testing.T) {
		s := NewStack(3)
		require.NoError(t, s.Push(a))
		require.NoError(t, s.Push(b))
		require.NoError(t, s.Push(c))
		require.Equal(t, 3, s.Len())

		top, ok := s.Pop()
		require.True(t, ok)
		require.Equal(t, c, top)

		top, ok = s.Pop()
		require.True(t, ok)
		require.Equal(t, b, top)

		top, ok = s.Pop()
		require.True(t, ok)
		require.Equal(t, a, top)

		_, ok = s.Pop()
		require.False(t, ok)
	})

	t.Run("push beyond capacity fails", func(t *testing.T) {
		s := NewStack(2)
		require.NoError(t, s.Push(a))
		require.NoError(t, s.Push(b))

		err := s.Push(c)
		require.Error(t, err)
		require.Equal(t, ErrTypeCapacityExceeded, errors.Type(err))
		require.Equal(t, []geometry.AABB{a, b}, s.Slice())
		require.Equal(t, 2, s.Cap())
	})

	t.Run("get", func(t *testing.T) {
		s := NewStack(2)
		require.NoError(t, s.Push(a))

		v, ok := s.Get(0)
		require.True(t, ok)
		require.Equal(t, a, v)

		_, ok = s.Get(1)
		require.False(t, ok)

		_, ok = s.Get(-1)
		require.False(t, ok)
	})

	t.Run("swap remove moves the top item", func(t *testing.T) {
		s := NewStack(3)
		require.NoError(t, s.Push(a))
		require.NoError(t, s.Push(b))
		require.NoError(t, s.Push(c))

		removed := s.SwapRemove(0)
		require.Equal(t, a, removed)
		require.Equal(t, []geometry.AABB{c, b}, s.Slice())

		removed = s.SwapRemove(1)
		require.Equal(t, b, removed)
		require.Equal(t, []geometry.AABB{c}, s.Slice())
	})

	t.Run("drain pops in order", func(t *testing.T) {
		s := NewStack(3)
		require.NoError(t, s.Push(a))
		require.NoError(t, s.Push(b))
		require.NoError(t, s.Push(c))

		var drained []geometry.AABB
		s.Drain(func(v geometry.AABB) {
			drained = append(drained, v)
		})
		require.Equal(t, []geometry.AABB{c, b, a}, drained)
		require.Zero(t, s.Len())
	})

	t.Run("reset keeps capacity", func(t *testing.T) {
		s := NewStack(1)
		require.NoError(t, s.Push(a))
		s.Reset()
		require.Zero(t, s.Len())
		require.NoError(t, s.Push(b))
		require.Error(t, s.Push(c))
	})

	t.Run("slice cannot grow the stack", func(t *testing.T) {
		s := NewStack(3)
		require.NoError(t, s.Push(a))

		view := s.Slice()
		_ = append(view, b)
		require.NoError(t, s.Push(c))

		v, _ := s.Get(1)
		require.Equal(t, c, v)
	})
}
