package audit

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := orm.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(context.Background(), orm); err != nil {
		t.Fatalf("migrating audit table: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return orm
}

func TestRecorderWritesRow(t *testing.T) {
	orm := newTestDB(t)
	recorder := NewRecorder(orm, nil, zerolog.Nop())
	ctx := context.Background()

	actorID := uuid.New()
	recorder.Record(ctx, Entry{
		ActorID: actorID,
		Actor:   "alice",
		Action:  "ASSIGNMENT_CREATED",
		Obj:     "test",
		Summary: "assigned 1 item(s) to Bob",
		Details: map[string]any{"count": 1},
	})

	var rows []auditModel
	if err := orm.Find(&rows).Error; err != nil {
		t.Fatalf("reading audit rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(rows))
	}
	row := rows[0]
	if row.Action != "ASSIGNMENT_CREATED" || row.Actor != "alice" {
		t.Errorf("row = %+v", row)
	}
	if row.ActorID == nil || *row.ActorID != actorID {
		t.Errorf("actor id not persisted: %v", row.ActorID)
	}
	if row.At.IsZero() {
		t.Error("At not set")
	}
}

func TestRecorderAnonymousActor(t *testing.T) {
	orm := newTestDB(t)
	recorder := NewRecorder(orm, nil, zerolog.Nop())

	recorder.Record(context.Background(), Entry{
		Actor:  "system",
		Action: "BULK_RETURN",
	})

	var row auditModel
	if err := orm.First(&row).Error; err != nil {
		t.Fatalf("reading audit row: %v", err)
	}
	if row.ActorID != nil {
		t.Errorf("anonymous actor should persist null actor_id, got %v", row.ActorID)
	}
}

func TestRecorderNilReceiverIsNoop(t *testing.T) {
	var recorder *Recorder
	// Must not panic.
	recorder.Record(context.Background(), Entry{Action: "X"})
}
