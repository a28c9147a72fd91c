package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"zimmetd/pkg/bus"
)

// Subject is the NATS subject carrying the audit side channel.
const Subject = "zimmet.audit"

// Entry describes one state-changing operation for the cross-entity audit log.
type Entry struct {
	ActorID uuid.UUID
	Actor   string
	Action  string
	Obj     string
	Summary string
	Details map[string]any
}

type auditModel struct {
	ID      int64             `gorm:"primaryKey;autoIncrement"`
	ActorID *uuid.UUID        `gorm:"type:uuid"`
	Actor   string            `gorm:"type:text;not null"`
	Action  string            `gorm:"type:text;not null;index"`
	Obj     string            `gorm:"type:text"`
	Summary string            `gorm:"type:text"`
	Details datatypes.JSONMap `gorm:"type:jsonb"`
	At      time.Time         `gorm:"not null;autoCreateTime"`
}

func (auditModel) TableName() string { return "audit" }

// Recorder appends entries to the audit table and mirrors them on the event
// bus. Recording happens after the domain transaction commits and is best
// effort: failures are logged and never surfaced to callers, so audit can
// neither roll back nor block a committed write.
type Recorder struct {
	orm    *gorm.DB
	bus    *bus.Bus
	logger zerolog.Logger
}

// NewRecorder constructs a Recorder. The bus may be nil when no NATS endpoint
// is configured.
func NewRecorder(orm *gorm.DB, b *bus.Bus, logger zerolog.Logger) *Recorder {
	return &Recorder{orm: orm, bus: b, logger: logger}
}

// Record persists and publishes one audit entry.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.orm == nil {
		return
	}

	model := auditModel{
		Actor:   e.Actor,
		Action:  e.Action,
		Obj:     e.Obj,
		Summary: e.Summary,
		Details: toJSONMap(e.Details),
	}
	if e.ActorID != uuid.Nil {
		actorID := e.ActorID
		model.ActorID = &actorID
	}

	if err := r.orm.WithContext(ctx).Create(&model).Error; err != nil {
		r.logger.Error().Err(err).Str("action", e.Action).Msg("audit write failed")
	}

	if r.bus == nil {
		return
	}
	payload := map[string]any{
		"actor_id": e.ActorID,
		"actor":    e.Actor,
		"action":   e.Action,
		"obj":      e.Obj,
		"summary":  e.Summary,
		"details":  e.Details,
	}
	if err := r.bus.Publish(ctx, Subject, payload); err != nil {
		r.logger.Warn().Err(err).Str("action", e.Action).Msg("audit publish failed")
	}
}

// Migrate creates the audit table.
func Migrate(ctx context.Context, orm *gorm.DB) error {
	return orm.WithContext(ctx).AutoMigrate(&auditModel{})
}

func toJSONMap(src map[string]any) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range src {
		out[k] = v
	}
	return out
}
