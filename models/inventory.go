package models

// InventorySize is the classic 28-slot backpack.
const InventorySize = 28

// ItemStack is a quantity of one item occupying a single inventory slot.
type ItemStack struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Inventory is a fixed-size slot container. Identical items stack into one
// slot, so a deposit only fails when the item is new and every slot is
// taken.
type Inventory struct {
	Slots [InventorySize]*ItemStack `json:"slots"`
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// AddItem deposits count of an item, stacking onto an existing slot when
// possible. It returns false, without any change, when there is no room.
func (inv *Inventory) AddItem(item string, count int) bool {
	if item == "" || count <= 0 {
		return false
	}
	for _, s := range inv.Slots {
		if s != nil && s.Item == item {
			s.Quantity += count
			return true
		}
	}
	for i, s := range inv.Slots {
		if s == nil {
			inv.Slots[i] = &ItemStack{Item: item, Quantity: count}
			return true
		}
	}
	return false
}

// RemoveItem empties a slot and returns its stack, or nil when the slot is
// out of range or already empty.
func (inv *Inventory) RemoveItem(slot int) *ItemStack {
	if slot < 0 || slot >= InventorySize {
		return nil
	}
	s := inv.Slots[slot]
	inv.Slots[slot] = nil
	return s
}

// Count returns the total quantity held of one item.
func (inv *Inventory) Count(item string) int {
	total := 0
	for _, s := range inv.Slots {
		if s != nil && s.Item == item {
			total += s.Quantity
		}
	}
	return total
}

// IsFull reports whether every slot is occupied.
func (inv *Inventory) IsFull() bool {
	for _, s := range inv.Slots {
		if s == nil {
			return false
		}
	}
	return true
}
