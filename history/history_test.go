package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleStack() {
	h := New[string](MaxDepth)
	h.Push("a")
	h.Push("b")
	h.Push("c")
	s, _ := h.Undo()
	fmt.Println(s)
	s, _ = h.Redo()
	fmt.Println(s)
	// Output:
	// b
	// c
}

func TestPushEvictsOldestFirst(t *testing.T) {
	h := New[int](MaxDepth)
	for i := 0; i < 51; i++ {
		h.Push(i)
	}
	assert.Equal(t, 50, h.Past())
	// 0 was evicted; undoing everything reaches 1 last
	var last int
	for {
		s, ok := h.Undo()
		if !ok {
			break
		}
		last = s
	}
	assert.Equal(t, 1, last)
}

func TestPushClearsFuture(t *testing.T) {
	h := New[int](MaxDepth)
	h.Push(1)
	h.Push(2)
	h.Undo()
	assert.True(t, h.CanRedo())
	h.Push(3)
	assert.False(t, h.CanRedo())
}

func TestUndoEmpty(t *testing.T) {
	h := New[int](MaxDepth)
	_, ok := h.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Future())
}

func TestUndoReturnsNewTop(t *testing.T) {
	h := New[string](MaxDepth)
	h.Push("initial")
	h.Push("edited")
	s, ok := h.Undo()
	assert.True(t, ok)
	assert.Equal(t, "initial", s)
	assert.Equal(t, 1, h.Past())
	assert.Equal(t, 1, h.Future())
}

// One snapshot in the past means there is nothing earlier: the undo is a
// no-op for the caller but the snapshot still moves to the redo stack.
func TestUndoSingleEntry(t *testing.T) {
	h := New[string](MaxDepth)
	h.Push("only")
	_, ok := h.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Past())
	assert.Equal(t, 1, h.Future())

	s, ok := h.Redo()
	assert.True(t, ok)
	assert.Equal(t, "only", s)
}

func TestRedoEmpty(t *testing.T) {
	h := New[int](MaxDepth)
	h.Push(1)
	_, ok := h.Redo()
	assert.False(t, ok)
}

func TestRedoOrder(t *testing.T) {
	h := New[int](MaxDepth)
	h.Push(1)
	h.Push(2)
	h.Push(3)
	h.Undo()
	h.Undo()
	s, _ := h.Redo()
	assert.Equal(t, 2, s)
	s, _ = h.Redo()
	assert.Equal(t, 3, s)
	assert.False(t, h.CanRedo())
}

func TestClear(t *testing.T) {
	h := New[int](3)
	h.Push(1)
	h.Push(2)
	h.Undo()
	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
