package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newEditor() *Editor {
	store := NewStore()
	store.Set(Example())
	store.SetEditMode(true)
	return NewEditor(store, nil)
}

func ExampleEditor() {
	store := NewStore()
	store.Set(Example())
	editor := NewEditor(store, nil)

	editor.Edit(func(s *Store) { s.RemoveCard("lights", "card-hall") })
	fmt.Println(len(lights(store.Document())))
	editor.Undo()
	fmt.Println(len(lights(store.Document())))
	editor.Redo()
	fmt.Println(len(lights(store.Document())))
	// Output:
	// 2
	// 3
	// 2
}

func TestEditorRecordsOnlyChanges(t *testing.T) {
	editor := newEditor()
	assert.Equal(t, 1, editor.History().Past())

	assert.False(t, editor.Edit(func(s *Store) { s.RemoveCard("lights", "missing") }))
	assert.Equal(t, 1, editor.History().Past())

	assert.True(t, editor.Edit(func(s *Store) { s.ToggleCardVisibility("lights", "card-hall") }))
	assert.Equal(t, 2, editor.History().Past())
	assert.False(t, editor.History().CanRedo())
}

func TestEditorUndoRestoresPrevious(t *testing.T) {
	editor := newEditor()
	initial := editor.Store().Document()
	editor.Edit(func(s *Store) { s.Reorder("lights", 0, 2) })
	edited := editor.Store().Document()
	editor.Edit(func(s *Store) { s.RemoveCard("lights", "card-desk") })

	assert.True(t, editor.Undo())
	assert.Same(t, edited, editor.Store().Document())
	assert.True(t, editor.Undo())
	assert.Same(t, initial, editor.Store().Document())

	// the seeded snapshot has nothing before it
	assert.False(t, editor.Undo())
	assert.Same(t, initial, editor.Store().Document())
}

func TestEditorNewEditClearsRedo(t *testing.T) {
	editor := newEditor()
	editor.Edit(func(s *Store) { s.RemoveCard("lights", "card-desk") })
	editor.Undo()
	assert.True(t, editor.History().CanRedo())
	editor.Edit(func(s *Store) { s.RemoveCard("lights", "card-hall") })
	assert.False(t, editor.History().CanRedo())
	assert.False(t, editor.Redo())
}

func TestHandleKey(t *testing.T) {
	editor := newEditor()
	editor.Edit(func(s *Store) { s.RemoveCard("lights", "card-desk") })
	after := editor.Store().Document()

	assert.False(t, editor.HandleKey(KeyEvent{Key: "z"}))
	assert.False(t, editor.HandleKey(KeyEvent{Key: "y", Ctrl: true}))
	assert.Same(t, after, editor.Store().Document())

	assert.True(t, editor.HandleKey(KeyEvent{Key: "z", Ctrl: true}))
	assert.Len(t, lights(editor.Store().Document()), 3)

	assert.True(t, editor.HandleKey(KeyEvent{Key: "Z", Meta: true, Shift: true}))
	assert.Same(t, after, editor.Store().Document())
}

func TestHandleKeyOutsideEditMode(t *testing.T) {
	editor := newEditor()
	editor.Edit(func(s *Store) { s.RemoveCard("lights", "card-desk") })
	editor.Store().SetEditMode(false)
	after := editor.Store().Document()
	assert.False(t, editor.HandleKey(KeyEvent{Key: "z", Ctrl: true}))
	assert.Same(t, after, editor.Store().Document())
}
