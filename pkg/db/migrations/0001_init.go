package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

// The structs below mirror the models in internal/zimmet. Assignments keep no
// foreign keys on item_id or holder_id: items and personnel may be deleted
// while historical assignments and receipts still reference them.

type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type Personnel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:text;not null"`
	RegNo     *string    `gorm:"type:text;uniqueIndex"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

func (Personnel) TableName() string { return "personnel" }

type Item struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name      string            `gorm:"type:text;not null"`
	TypeCode  string            `gorm:"type:text;index"`
	Brand     string            `gorm:"type:text"`
	AssetTag  *string           `gorm:"type:text;uniqueIndex"`
	SerialNo  *string           `gorm:"type:text;uniqueIndex"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	Status    string            `gorm:"type:text;not null;index;default:'idle'"`
	CreatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type Assignment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	HolderID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	CompanyID  *uuid.UUID     `gorm:"type:uuid"`
	Unit       string         `gorm:"type:text"`
	Notes      string         `gorm:"type:text"`
	FormPath   string         `gorm:"type:text"`
	Status     string         `gorm:"type:text;not null;index"`
	AssignedAt time.Time      `gorm:"type:timestamptz;not null"`
	ReturnedAt *time.Time     `gorm:"type:timestamptz"`
	History    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type ReturnReceipt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	HolderID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProcessorID uuid.UUID      `gorm:"type:uuid;not null"`
	Lines       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

type Audit struct {
	ID      int64             `gorm:"primaryKey;autoIncrement"`
	ActorID *uuid.UUID        `gorm:"type:uuid"`
	Actor   string            `gorm:"type:text;not null"`
	Action  string            `gorm:"type:text;not null;index"`
	Obj     string            `gorm:"type:text"`
	Summary string            `gorm:"type:text"`
	Details datatypes.JSONMap `gorm:"type:jsonb"`
	At      time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (Audit) TableName() string { return "audit" }

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).AutoMigrate(
		&Company{},
		&Personnel{},
		&Item{},
		&Assignment{},
		&ReturnReceipt{},
		&Audit{},
	)
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().DropTable(
		&Audit{},
		&ReturnReceipt{},
		&Assignment{},
		&Item{},
		&Personnel{},
		&Company{},
	)
}
