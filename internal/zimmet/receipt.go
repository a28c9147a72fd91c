package zimmet

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptLine pairs one returned item with the assignment that covered it.
type ReceiptLine struct {
	ItemID       uuid.UUID `json:"item_id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
}

// ReturnReceipt groups the assignments closed by one bulk-return transaction.
// It is immutable once written and exists so the document can be reprinted
// without re-deriving which items were included.
type ReturnReceipt struct {
	ID          uuid.UUID     `json:"id"`
	HolderID    uuid.UUID     `json:"holder_id"`
	ProcessorID uuid.UUID     `json:"processor_id"`
	Lines       []ReceiptLine `json:"lines"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ReceiptLineDetail is a receipt line resolved against the item registry.
// Deleted marks items that no longer exist; the reprint renders them as
// "deleted item" instead of failing the whole read.
type ReceiptLineDetail struct {
	ItemID       uuid.UUID `json:"item_id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	ItemName     string    `json:"item_name"`
	AssetTag     string    `json:"asset_tag,omitempty"`
	SerialNo     string    `json:"serial_no,omitempty"`
	Deleted      bool      `json:"deleted"`
}

// ReceiptDetail is the reprint view of a receipt.
type ReceiptDetail struct {
	ID            uuid.UUID           `json:"id"`
	HolderID      uuid.UUID           `json:"holder_id"`
	HolderName    string              `json:"holder_name"`
	ProcessorID   uuid.UUID           `json:"processor_id"`
	ProcessorName string              `json:"processor_name"`
	Lines         []ReceiptLineDetail `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
}
