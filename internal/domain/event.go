package domain

type CartOp string

const (
	CartOpAdd         CartOp = "add"
	CartOpSetQuantity CartOp = "set_quantity"
	CartOpRemove      CartOp = "remove"
	CartOpClear       CartOp = "clear"
	CartOpCheckout    CartOp = "checkout"
	CartOpSync        CartOp = "sync"
)

type Origin string

const (
	// OriginLocal marks a mutation made through the notifying store.
	OriginLocal Origin = "local"
	// OriginRemote marks a change written by another store sharing the same persisted cart.
	OriginRemote Origin = "remote"
)

// CartChanged carries the cart snapshot as of the change.
type CartChanged struct {
	Op     CartOp
	Origin Origin
	Cart   Cart
}
