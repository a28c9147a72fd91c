package zimmet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type returnReceiptModel struct {
	ID          uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	HolderID    uuid.UUID                        `gorm:"type:uuid;not null;index"`
	ProcessorID uuid.UUID                        `gorm:"type:uuid;not null"`
	Lines       datatypes.JSONSlice[ReceiptLine] `gorm:"type:jsonb"`
	CreatedAt   time.Time                        `gorm:"not null;autoCreateTime"`
}

func (returnReceiptModel) TableName() string { return "return_receipts" }

func (m returnReceiptModel) toAPI() ReturnReceipt {
	return ReturnReceipt{
		ID:          m.ID,
		HolderID:    m.HolderID,
		ProcessorID: m.ProcessorID,
		Lines:       []ReceiptLine(m.Lines),
		CreatedAt:   m.CreatedAt,
	}
}
