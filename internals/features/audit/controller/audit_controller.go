package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/features/audit/dto"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
)

type AuditController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAuditController(db *gorm.DB, log *zap.Logger) *AuditController {
	return &AuditController{DB: db, Log: log.Named("audit")}
}

// GET /api/audit?entity=&action=&user_id=&entity_id=&page=&per_page=
func (ctl *AuditController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).
		Table("audit_logs").
		Joins("LEFT JOIN users ON users.user_id = audit_logs.audit_log_user_id")

	if entity := strings.TrimSpace(c.Query("entity")); entity != "" {
		q = q.Where("audit_logs.audit_log_entity = ?", entity)
	}
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("audit_logs.audit_log_action ILIKE ?", "%"+action+"%")
	}
	for _, f := range []struct{ param, column string }{
		{"user_id", "audit_logs.audit_log_user_id"},
		{"entity_id", "audit_logs.audit_log_entity_id"},
	} {
		raw := strings.TrimSpace(c.Query(f.param))
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid "+f.param)
		}
		q = q.Where(f.column+" = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	p := helper.ResolvePaging(c, 50, 200)
	rows := []dto.AuditLogItem{}
	if err := q.
		Select("audit_logs.*, users.user_email, users.user_full_name").
		Order("audit_logs.audit_log_timestamp DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "Audit logs fetched", rows, &pg)
}
