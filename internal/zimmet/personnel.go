package zimmet

import (
	"time"

	"github.com/google/uuid"
)

// Personnel is the holder record an assignment points at.
type Personnel struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	RegNo     string     `json:"reg_no,omitempty"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PersonnelParams carries the writable fields of a personnel record.
type PersonnelParams struct {
	Name      string
	RegNo     string
	CompanyID *uuid.UUID
	Active    *bool
}

// PersonnelUpdate is a partial edit. Nil fields are left alone; a pointer to
// the empty string clears the registration number.
type PersonnelUpdate struct {
	Name      *string
	RegNo     *string
	CompanyID *uuid.UUID
	Active    *bool
}

// Company is the organizational unit lookup.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
