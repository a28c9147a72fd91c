package zimmet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type assignmentModel struct {
	ID         uuid.UUID                         `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID                         `gorm:"type:uuid;not null;index"`
	HolderID   uuid.UUID                         `gorm:"type:uuid;not null;index"`
	CompanyID  *uuid.UUID                        `gorm:"type:uuid"`
	Unit       string                            `gorm:"type:text"`
	Notes      string                            `gorm:"type:text"`
	FormPath   string                            `gorm:"type:text"`
	Status     string                            `gorm:"type:text;not null;index"`
	AssignedAt time.Time                         `gorm:"not null"`
	ReturnedAt *time.Time                        `gorm:""`
	History    datatypes.JSONSlice[HistoryEntry] `gorm:"type:jsonb"`
	CreatedAt  time.Time                         `gorm:"not null;autoCreateTime"`
	UpdatedAt  time.Time                         `gorm:"not null;autoUpdateTime"`
}

func (assignmentModel) TableName() string { return "assignments" }

func (m assignmentModel) toAPI() Assignment {
	return Assignment{
		ID:         m.ID,
		ItemID:     m.ItemID,
		HolderID:   m.HolderID,
		CompanyID:  m.CompanyID,
		Unit:       m.Unit,
		Notes:      m.Notes,
		FormPath:   m.FormPath,
		Status:     AssignmentStatus(m.Status),
		AssignedAt: m.AssignedAt,
		ReturnedAt: m.ReturnedAt,
		History:    []HistoryEntry(m.History),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
