package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/features/audit/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

// Recorder appends audit entries after successful operations. Failures are
// logged and swallowed; an audit miss never fails the request.
type Recorder struct {
	db    *gorm.DB
	clock dbtime.Clock
	log   *zap.Logger
}

func NewRecorder(db *gorm.DB, clock dbtime.Clock, log *zap.Logger) *Recorder {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &Recorder{db: db, clock: clock, log: log.Named("audit")}
}

type Entry struct {
	UserID   uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Details  map[string]any
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil {
		return
	}
	details := []byte("{}")
	if len(e.Details) > 0 {
		b, err := sonic.Marshal(e.Details)
		if err != nil {
			r.log.Warn("audit details not serialisable", zap.String("action", e.Action), zap.Error(err))
		} else {
			details = b
		}
	}

	row := model.AuditLogModel{
		AuditLogID:        uuid.New(),
		AuditLogAction:    e.Action,
		AuditLogEntity:    e.Entity,
		AuditLogEntityID:  e.EntityID,
		AuditLogDetails:   datatypes.JSON(details),
		AuditLogTimestamp: r.clock.NowMs(),
	}
	if e.UserID != uuid.Nil {
		uid := e.UserID
		row.AuditLogUserID = &uid
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.log.Warn("audit write failed",
			zap.String("action", e.Action),
			zap.String("entity", e.Entity),
			zap.Error(err),
		)
	}
}

// ID is a small helper for EntityID fields.
func ID(id uuid.UUID) *uuid.UUID { return &id }
