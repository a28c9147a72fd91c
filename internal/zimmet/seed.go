package zimmet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCompanyName is the organizational unit personnel land in when no
// company is picked during intake.
const DefaultCompanyName = "Headquarters"

// Seed inserts baseline directory records. It is idempotent and safe to run
// on every startup.
func Seed(ctx context.Context, orm *gorm.DB) error {
	var n int64
	if err := orm.WithContext(ctx).Model(&companyModel{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return orm.WithContext(ctx).Create(&companyModel{
		ID:   uuid.New(),
		Name: DefaultCompanyName,
	}).Error
}
