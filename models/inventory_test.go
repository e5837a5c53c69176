package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_AddItemStacks(t *testing.T) {
	inv := NewInventory()

	require.True(t, inv.AddItem("bones", 1))
	require.True(t, inv.AddItem("bones", 3))

	assert.Equal(t, 4, inv.Count("bones"))
	assert.NotNil(t, inv.Slots[0])
	assert.Nil(t, inv.Slots[1], "identical items share one slot")
}

func TestInventory_AddItemRejectsInvalid(t *testing.T) {
	inv := NewInventory()
	assert.False(t, inv.AddItem("", 1))
	assert.False(t, inv.AddItem("bones", 0))
	assert.False(t, inv.AddItem("bones", -2))
	assert.Equal(t, 0, inv.Count("bones"))
}

func TestInventory_FullOnlyBlocksNewItems(t *testing.T) {
	inv := NewInventory()
	for i := 0; i < InventorySize; i++ {
		require.True(t, inv.AddItem(fmt.Sprintf("item_%d", i), 1))
	}
	require.True(t, inv.IsFull())

	assert.False(t, inv.AddItem("bones", 1), "a new item needs a free slot")
	assert.True(t, inv.AddItem("item_0", 5), "an existing stack still accepts more")
	assert.Equal(t, 6, inv.Count("item_0"))
}

func TestInventory_RemoveItem(t *testing.T) {
	inv := NewInventory()
	inv.AddItem("logs", 7)

	stack := inv.RemoveItem(0)
	require.NotNil(t, stack)
	assert.Equal(t, "logs", stack.Item)
	assert.Equal(t, 7, stack.Quantity)
	assert.Equal(t, 0, inv.Count("logs"))

	assert.Nil(t, inv.RemoveItem(0), "slot already empty")
	assert.Nil(t, inv.RemoveItem(-1))
	assert.Nil(t, inv.RemoveItem(InventorySize))
}
