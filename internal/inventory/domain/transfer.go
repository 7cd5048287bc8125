package domain

// Stock operations accepted by the ledger.
const (
	OperationAdd      = "add"
	OperationSubtract = "subtract"
	OperationSet      = "set"
)

// TransferRequest describes an in-flight cross-location stock move. Both the
// source and the destination item must already exist; provisioning a
// destination item is an explicit, separate step.
type TransferRequest struct {
	ProductID      uint   `json:"product_id"`
	FromLocationID uint   `json:"from_location_id"`
	ToLocationID   uint   `json:"to_location_id"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason"`
}

// TransferResult reports the outcome of a transfer, including whether a
// compensating rollback ran after a partial failure.
type TransferResult struct {
	Source      *InventoryItem `json:"source"`
	Destination *InventoryItem `json:"destination"`
	Quantity    int            `json:"quantity"`
	RolledBack  bool           `json:"rolled_back"`
}

// BatchStockUpdate is one entry of a batch stock mutation.
type BatchStockUpdate struct {
	ItemID    uint   `json:"item_id"`
	Operation string `json:"operation"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// BatchResult is the outcome for one batch entry, keyed to its input.
type BatchResult struct {
	Index   int            `json:"index"`
	ItemID  uint           `json:"item_id"`
	Success bool           `json:"success"`
	Item    *InventoryItem `json:"item,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BatchOutcome aggregates a whole batch. Success is true when at least one
// entry succeeded.
type BatchOutcome struct {
	Success bool          `json:"success"`
	Results []BatchResult `json:"results"`
}
