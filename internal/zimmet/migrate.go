package zimmet

import (
	"context"

	"gorm.io/gorm"
)

// AutoMigrate creates the engine's tables on the provided session. The server
// normally migrates through the embedded goose migrations; this path backs
// tests and ad-hoc tooling.
func AutoMigrate(ctx context.Context, orm *gorm.DB) error {
	return orm.WithContext(ctx).AutoMigrate(
		&companyModel{},
		&personnelModel{},
		&itemModel{},
		&assignmentModel{},
		&returnReceiptModel{},
	)
}
