package zimmet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type itemModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name      string            `gorm:"type:text;not null"`
	TypeCode  string            `gorm:"type:text;index"`
	Brand     string            `gorm:"type:text"`
	AssetTag  *string           `gorm:"type:text;uniqueIndex"`
	SerialNo  *string           `gorm:"type:text;uniqueIndex"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	Status    string            `gorm:"type:text;not null;index"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"not null;autoUpdateTime"`
}

func (itemModel) TableName() string { return "items" }

func (m itemModel) toAPI() Item {
	return Item{
		ID:        m.ID,
		Name:      m.Name,
		TypeCode:  m.TypeCode,
		Brand:     m.Brand,
		AssetTag:  m.AssetTag,
		SerialNo:  m.SerialNo,
		Metadata:  mapFromJSONMap(m.Metadata),
		Status:    ItemStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func mapFromJSONMap(src datatypes.JSONMap) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func toJSONMap(src map[string]any) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	if src == nil {
		return out
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
