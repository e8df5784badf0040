package task

// Kind identifies an operation/task type. It is the key the router resolves
// and the tag close strategies are selected by.
type Kind string

const (
	KindMarking                Kind = "marking"
	KindAcceptanceToStock      Kind = "acceptance_to_stock"
	KindPalletCollect          Kind = "pallet_collect"
	KindPlacementToCells       Kind = "placement_to_cells"
	KindMovementBetweenCells   Kind = "movement_between_cells"
	KindMovementBetweenPallets Kind = "movement_between_pallets"
	KindShipment               Kind = "shipment"
	KindSelection              Kind = "selection"
	KindOrder                  Kind = "order"
	KindInventory              Kind = "inventory"
	KindRepacking              Kind = "repacking"
	KindArrivalAtStock         Kind = "arrival_at_stock"
	KindWriteOff               Kind = "write_off"
	KindCancelShipment         Kind = "cancel_shipment"
	KindMovementWithShipment   Kind = "movement_with_shipment"
)

// String returns the kind as its router key
func (k Kind) String() string {
	return string(k)
}

// CollectKind classifies what a pallet-collect task was created for.
// Only SHIPMENT and SELECTION have a parent to cascade into; every other
// value means "no parent cascade".
type CollectKind string

const (
	CollectShipment   CollectKind = "SHIPMENT"
	CollectSelection  CollectKind = "SELECTION"
	CollectInventory  CollectKind = "INVENTORY"
	CollectWriteOff   CollectKind = "WRITE_OFF"
	CollectDivided    CollectKind = "DIVIDED"
	CollectAcceptance CollectKind = "ACCEPTANCE"
)

// ParentKind returns the operation kind a collect task cascades into,
// or false when the collect reason has no parent.
func (c CollectKind) ParentKind() (Kind, bool) {
	switch c {
	case CollectShipment:
		return KindShipment, true
	case CollectSelection:
		return KindSelection, true
	default:
		return "", false
	}
}
