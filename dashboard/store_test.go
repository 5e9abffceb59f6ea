package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetSelectsDefaultView(t *testing.T) {
	store := NewStore()
	store.Set(Example())
	assert.Equal(t, "overview", store.ActiveViewID())
	assert.Equal(t, "Overview", store.ActiveView().Name)

	doc := Example()
	doc.DefaultView = ""
	doc.Views = doc.Views[1:]
	store.Set(doc)
	assert.Equal(t, "rooms", store.ActiveViewID())

	store.Set(nil)
	assert.Equal(t, "", store.ActiveViewID())
	assert.Nil(t, store.ActiveView())
}

func TestStoreScopesToActiveView(t *testing.T) {
	store := NewStore()
	store.Set(Example())
	store.SetActiveView("rooms")

	// lights lives in overview, so nothing changes
	before := store.Document()
	store.RemoveCard("lights", "card-kitchen")
	assert.Same(t, before, store.Document())

	store.RemoveCard("kitchen", "card-kettle")
	assert.NotSame(t, before, store.Document())
	assert.Nil(t, store.Document().Card("card-kettle"))
	assert.NotNil(t, before.Card("card-kettle"))
}

func TestStoreOperations(t *testing.T) {
	store := NewStore()
	store.Set(Example())

	store.Reorder("lights", 0, 2)
	assert.Equal(t, []string{"card-hall", "card-desk", "card-kitchen"}, ids(lights(store.Document())))

	store.AddCard("lights", &CardItem{ID: "card-porch", Type: "light"})
	store.AddMultipleCards("lights", []*CardItem{{ID: "card-a"}, {ID: "card-b"}})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, orders(lights(store.Document())))

	store.ToggleCardVisibility("lights", "card-porch")
	assert.False(t, store.Document().Card("card-porch").IsVisible())

	size := "2x2"
	store.UpdateCardConfig("lights", "card-porch", CardUpdate{Size: &size})
	assert.Equal(t, "2x2", store.Document().Card("card-porch").Size)

	store.DuplicateCard("lights", "card-porch")
	assert.Len(t, lights(store.Document()), 7)

	store.RemoveSection("lights")
	assert.Nil(t, store.ActiveView().Section("lights"))

	store.AddSection(&Section{ID: "scenes", Title: "Scenes"})
	assert.NotNil(t, store.ActiveView().Section("scenes"))

	store.UpdateTheme("sap_horizon", "#00ff00", false)
	assert.Equal(t, "#00ff00", store.Document().AccentColor)
}

func TestStoreSubscribeLatestWins(t *testing.T) {
	store := NewStore()
	ch := store.Subscribe()
	store.Set(Example())
	store.RemoveCard("lights", "card-hall")
	store.RemoveCard("lights", "card-desk")

	doc := <-ch
	assert.Same(t, store.Document(), doc)
	select {
	case <-ch:
		t.Fatal("expected a single pending document")
	default:
	}

	// no-ops do not publish
	store.RemoveCard("lights", "missing")
	select {
	case <-ch:
		t.Fatal("unexpected publish")
	default:
	}

	store.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok)
	store.RemoveCard("lights", "card-kitchen")
}

func TestStoreEditMode(t *testing.T) {
	store := NewStore()
	assert.False(t, store.EditMode())
	store.SetEditMode(true)
	assert.True(t, store.EditMode())
}

func TestStoreReplaceKeepsActiveView(t *testing.T) {
	store := NewStore()
	store.Set(Example())
	store.SetActiveView("rooms")
	store.Replace(Example())
	assert.Equal(t, "rooms", store.ActiveViewID())
	require.NotNil(t, store.ActiveView())
}
