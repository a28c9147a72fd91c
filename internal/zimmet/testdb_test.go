package zimmet

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"zimmetd/internal/audit"
)

// newTestDB creates a fresh in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := AutoMigrate(ctx, orm); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	if err := audit.Migrate(ctx, orm); err != nil {
		t.Fatalf("migrating audit table: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })

	return orm
}

func newTestEngine(t *testing.T, orm *gorm.DB) *Engine {
	t.Helper()

	recorder := audit.NewRecorder(orm, nil, zerolog.Nop())
	engine, err := NewEngine(orm, recorder, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func mustItem(t *testing.T, orm *gorm.DB, name string) Item {
	t.Helper()

	registry, err := NewRegistry(orm)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	item, err := registry.CreateItem(context.Background(), ItemParams{Name: name, TypeCode: "GEN"})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return item
}

func mustPerson(t *testing.T, orm *gorm.DB, name string) Personnel {
	t.Helper()

	directory, err := NewDirectory(orm)
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	person, err := directory.CreatePersonnel(context.Background(), PersonnelParams{Name: name})
	if err != nil {
		t.Fatalf("CreatePersonnel(%s): %v", name, err)
	}
	return person
}

func itemStatus(t *testing.T, orm *gorm.DB, item Item) ItemStatus {
	t.Helper()

	registry, err := NewRegistry(orm)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	got, err := registry.GetItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	return got.Status
}

func auditCount(t *testing.T, orm *gorm.DB, action string) int64 {
	t.Helper()

	var n int64
	if err := orm.Table("audit").Where("action = ?", action).Count(&n).Error; err != nil {
		t.Fatalf("counting audit rows: %v", err)
	}
	return n
}

var testActor = Actor{Name: "tester"}
