package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlane/storefront/cart/pkg/repository"
	"github.com/velvetlane/storefront/cart/pkg/store"
)

func linenShirt() store.Line {
	return store.Line{Slug: "linen-shirt", Name: "Linen Shirt", Size: "M", Color: "white", ProductID: 7}
}

func TestAddItemPersistsAcrossLoads(t *testing.T) {
	c := context.Background()
	svc := NewCartService(repository.NewMemory())

	_, notice, err := svc.AddItem(c, "session-1", linenShirt())
	require.NoError(t, err)
	assert.Equal(t, store.NoticeAdded, notice.Kind)

	state, _, err := svc.AddItem(c, "session-1", linenShirt())
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 2, state.Lines[0].Quantity)

	loaded, err := svc.GetCart(c, "session-1")
	require.NoError(t, err)
	assert.Equal(t, state.Lines, loaded.Lines)
}

func TestSessionsAreIsolated(t *testing.T) {
	c := context.Background()
	svc := NewCartService(repository.NewMemory())

	_, _, err := svc.AddItem(c, "session-1", linenShirt())
	require.NoError(t, err)

	other, err := svc.GetCart(c, "session-2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestRejectedAddDoesNotWrite(t *testing.T) {
	c := context.Background()
	repo := repository.NewMemory()
	svc := NewCartService(repo)

	state := store.State{}
	for range store.MaxQuantity {
		state, _ = store.AddItem(state, linenShirt())
	}
	require.NoError(t, repo.Save(c, "session-1", state))

	next, notice, err := svc.AddItem(c, "session-1", linenShirt())
	require.NoError(t, err)
	assert.Equal(t, store.NoticeMaxQuantity, notice.Kind)
	assert.Equal(t, store.MaxQuantity, next.Lines[0].Quantity)

	loaded, err := repo.Load(c, "session-1")
	require.NoError(t, err)
	assert.Equal(t, store.MaxQuantity, loaded.Lines[0].Quantity)
}

func TestRemoveAllLeavesEmptyCart(t *testing.T) {
	c := context.Background()
	svc := NewCartService(repository.NewMemory())

	_, _, err := svc.AddItem(c, "session-1", linenShirt())
	require.NoError(t, err)

	state, notice, err := svc.RemoveAll(c, "session-1")
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
	assert.Equal(t, store.NoticeCleared, notice.Kind)

	loaded, err := svc.GetCart(c, "session-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Lines)
}

func TestDecreaseQuantityRemovesLineAtOne(t *testing.T) {
	c := context.Background()
	svc := NewCartService(repository.NewMemory())

	_, _, err := svc.AddItem(c, "session-1", linenShirt())
	require.NoError(t, err)

	state, notice, err := svc.DecreaseQuantity(c, "session-1", linenShirt().Key())
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
	assert.Equal(t, store.NoticeRemoved, notice.Kind)
}
