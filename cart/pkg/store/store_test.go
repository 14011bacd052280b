package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linenShirt() Line {
	return Line{Slug: "linen-shirt", Name: "Linen Shirt", Size: "M", Color: "white", ProductID: 7}
}

func TestAddItemMergesByKey(t *testing.T) {
	state := State{}
	for range 5 {
		state, _ = AddItem(state, linenShirt())
	}

	require.Len(t, state.Lines, 1)
	assert.Equal(t, 5, state.Lines[0].Quantity)
}

func TestAddItemCapsAtMaxQuantity(t *testing.T) {
	state := State{}
	notice := Notice{}
	for range MaxQuantity {
		state, notice = AddItem(state, linenShirt())
		assert.Equal(t, NoticeAdded, notice.Kind)
	}
	require.Len(t, state.Lines, 1)
	require.Equal(t, MaxQuantity, state.Lines[0].Quantity)

	next, notice := AddItem(state, linenShirt())
	assert.Equal(t, NoticeMaxQuantity, notice.Kind)
	assert.Equal(t, state, next)
}

func TestAddItemDistinguishesSizeAndColor(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())

	other := linenShirt()
	other.Size = "L"
	state, _ = AddItem(state, other)

	recolored := linenShirt()
	recolored.Color = "navy"
	state, _ = AddItem(state, recolored)

	require.Len(t, state.Lines, 3)
	for _, line := range state.Lines {
		assert.Equal(t, 1, line.Quantity)
	}
}

func TestAddItemDoesNotMutateInput(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())
	before := state.Lines[0].Quantity

	_, _ = AddItem(state, linenShirt())
	assert.Equal(t, before, state.Lines[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())

	next, notice := RemoveItem(state, linenShirt().Key())
	assert.Empty(t, next.Lines)
	assert.Equal(t, NoticeRemoved, notice.Kind)
	assert.Equal(t, "linen-shirt", notice.Line.Slug)

	next, notice = RemoveItem(next, linenShirt().Key())
	assert.Empty(t, next.Lines)
	assert.Equal(t, NoticeNone, notice.Kind)
}

func TestUpdateQuantityIgnoresOutOfRange(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())
	key := linenShirt().Key()

	for _, quantity := range []int{0, -1, MaxQuantity + 1, 100} {
		next := UpdateQuantity(state, key, quantity)
		assert.Equal(t, state, next, "quantity=%d must be a no-op", quantity)
	}

	next := UpdateQuantity(state, key, 13)
	assert.Equal(t, 13, next.Lines[0].Quantity)
}

func TestIncreaseQuantity(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())
	key := linenShirt().Key()

	state, notice := IncreaseQuantity(state, key)
	assert.Equal(t, 2, state.Lines[0].Quantity)
	assert.Equal(t, NoticeNone, notice.Kind)

	state = UpdateQuantity(state, key, MaxQuantity)
	next, notice := IncreaseQuantity(state, key)
	assert.Equal(t, state, next)
	assert.Equal(t, NoticeMaxQuantity, notice.Kind)
}

func TestDecreaseQuantityRemovesAtOne(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())
	key := linenShirt().Key()

	state, notice := DecreaseQuantity(state, key)
	assert.Empty(t, state.Lines)
	assert.Equal(t, NoticeRemoved, notice.Kind)

	next, notice := DecreaseQuantity(state, Key{Slug: "missing", Size: "M"})
	assert.Equal(t, state, next)
	assert.Equal(t, NoticeNone, notice.Kind)
}

func TestRemoveAll(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())
	other := linenShirt()
	other.Size = "S"
	state, _ = AddItem(state, other)

	state, notice := RemoveAll(state)
	assert.Empty(t, state.Lines)
	assert.Equal(t, NoticeCleared, notice.Kind)
	assert.Zero(t, state.TotalQuantity())
}

func TestStateRoundTrip(t *testing.T) {
	state, _ := AddItem(State{}, linenShirt())
	other := linenShirt()
	other.Size = "XL"
	other.Color = "navy"
	state, _ = AddItem(state, other)
	state = UpdateQuantity(state, linenShirt().Key(), 3)

	serialized, err := json.Marshal(state)
	require.NoError(t, err)

	restored := State{}
	require.NoError(t, json.Unmarshal(serialized, &restored))
	assert.Equal(t, state.Lines, restored.Lines)
}
