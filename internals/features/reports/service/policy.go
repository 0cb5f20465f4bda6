package service

import (
	"time"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

// Policy holds the tunables of the daily report rule.
type Policy struct {
	// Window is the trailing period in which a second report is refused.
	Window time.Duration
	// WakeDeadline is the hostel-local time after which a report counts late.
	WakeDeadline dbtime.Tod
	Location     *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		Window:       18 * time.Hour,
		WakeDeadline: dbtime.MustParse("05:30"),
		Location:     time.UTC,
	}
}

// approvals is the approve dispatch table: role → current status → next.
var approvals = map[string]map[model.ReportStatus]model.ReportStatus{
	constants.RoleTeacher: {
		model.ReportPendingTeacher: model.ReportPendingAdmin,
	},
	constants.RoleAdmin: {
		model.ReportPendingAdmin:   model.ReportApproved,
		model.ReportPendingTeacher: model.ReportApproved, // admin override
	},
}

// NextOnApprove looks up the approve transition for role from status.
// ok=false with known=false means the role may not approve at all.
func NextOnApprove(role string, from model.ReportStatus) (next model.ReportStatus, ok, known bool) {
	byStatus, known := approvals[role]
	if !known {
		return "", false, false
	}
	next, ok = byStatus[from]
	return next, ok, true
}
