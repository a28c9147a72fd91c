package zimmet

import (
	"time"

	"github.com/google/uuid"
)

// Actor identifies the user performing an engine operation. The display name
// is denormalized into history entries so they stay readable after the user
// record is gone.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Field names the mutable assignment and item fields that may appear in a
// history entry. The set is closed: unknown names cannot be recorded.
type Field string

const (
	FieldStatus       Field = "status"
	FieldUnit         Field = "unit"
	FieldNotes        Field = "notes"
	FieldFormPath     Field = "form_path"
	FieldReturnDate   Field = "return_date"
	FieldItemName     Field = "item_name"
	FieldItemBrand    Field = "item_brand"
	FieldItemTypeCode Field = "item_type_code"
)

// FieldChange records one field-level change inside a history entry.
type FieldChange struct {
	Field Field  `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// HistoryEntry is one immutable audit record on an assignment. All fields
// changed by a single operation share one entry.
type HistoryEntry struct {
	ActorID   uuid.UUID     `json:"actor_id"`
	ActorName string        `json:"actor_name"`
	At        time.Time     `json:"at"`
	Changes   []FieldChange `json:"changes"`
}

// Assignment is one holding period of one item by one person.
type Assignment struct {
	ID         uuid.UUID        `json:"id"`
	ItemID     uuid.UUID        `json:"item_id"`
	HolderID   uuid.UUID        `json:"holder_id"`
	CompanyID  *uuid.UUID       `json:"company_id,omitempty"`
	Unit       string           `json:"unit"`
	Notes      string           `json:"notes"`
	FormPath   string           `json:"form_path,omitempty"`
	Status     AssignmentStatus `json:"status"`
	AssignedAt time.Time        `json:"assigned_at"`
	ReturnedAt *time.Time       `json:"returned_at,omitempty"`
	History    []HistoryEntry   `json:"history"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateParams describes a multi-item assignment request.
type CreateParams struct {
	ItemIDs   []uuid.UUID
	HolderID  uuid.UUID
	CompanyID *uuid.UUID
	Unit      string
	Notes     string
	// Pending creates the assignments awaiting physical sign-off instead of
	// directly active.
	Pending bool
}

// UpdateParams lists the fields an update may touch; nil pointers are left
// alone. Item descriptive edits ride along in the same history entry.
type UpdateParams struct {
	Status       *AssignmentStatus
	Unit         *string
	Notes        *string
	FormPath     *string
	ItemName     *string
	ItemBrand    *string
	ItemTypeCode *string
}

// ListFilter narrows assignment listings.
type ListFilter struct {
	HolderID *uuid.UUID
	ItemID   *uuid.UUID
	Status   *AssignmentStatus
}
