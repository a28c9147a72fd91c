package zimmet

import (
	"time"

	"github.com/google/uuid"
)

type personnelModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:text;not null"`
	RegNo     *string    `gorm:"type:text;uniqueIndex"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime"`
}

func (personnelModel) TableName() string { return "personnel" }

func (m personnelModel) toAPI() Personnel {
	regNo := ""
	if m.RegNo != nil {
		regNo = *m.RegNo
	}
	return Personnel{
		ID:        m.ID,
		Name:      m.Name,
		RegNo:     regNo,
		CompanyID: m.CompanyID,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type companyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (companyModel) TableName() string { return "companies" }

func (m companyModel) toAPI() Company {
	return Company{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
