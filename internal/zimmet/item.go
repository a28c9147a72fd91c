package zimmet

import (
	"time"

	"github.com/google/uuid"
)

// Item models a physical asset tracked by the registry.
type Item struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	TypeCode  string         `json:"type_code"`
	Brand     string         `json:"brand"`
	AssetTag  *string        `json:"asset_tag,omitempty"`
	SerialNo  *string        `json:"serial_no,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Status    ItemStatus     `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItemParams carries the writable descriptive fields of an item. Status is
// absent on purpose: only the engine's transactional operations change it.
type ItemParams struct {
	Name     string
	TypeCode string
	Brand    string
	AssetTag *string
	SerialNo *string
	Metadata map[string]any
}

// ItemUpdate is a partial edit. Nil fields are left alone; a pointer to the
// empty string clears the field, so brands and tags can be removed, not just
// replaced.
type ItemUpdate struct {
	Name     *string
	TypeCode *string
	Brand    *string
	AssetTag *string
	SerialNo *string
	Metadata map[string]any
}
