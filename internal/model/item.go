package model

// ItemType is a row of the `item_types` store catalog.  Like fish types,
// item types are immutable reference data.
//
// Fields:
//
//	ID    – primary key identifier of the item type.
//	Name  – display name.
//	Price – cost in coins, non-negative.
type ItemType struct {
	ID    uint64 // item_types.id
	Name  string // item_types.name
	Price int64  // item_types.price
}
