package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

type ReportService struct {
	store  ReportStore
	clock  dbtime.Clock
	policy Policy
}

func NewReportService(store ReportStore, clock dbtime.Clock, policy Policy) *ReportService {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	def := DefaultPolicy()
	if policy.Window <= 0 {
		policy.Window = def.Window
	}
	if policy.Location == nil {
		policy.Location = def.Location
	}
	if policy.WakeDeadline == (dbtime.Tod{}) {
		policy.WakeDeadline = def.WakeDeadline
	}
	return &ReportService{store: store, clock: clock, policy: policy}
}

type CreateReportInput struct {
	Walk     bool
	Exercise bool
}

// CreateDailyReport records the student's wake-up. One report per window.
func (s *ReportService) CreateDailyReport(ctx context.Context, actor helperAuth.Actor, in CreateReportInput) (*model.ReportModel, error) {
	if !actor.Is(constants.RoleStudent) {
		return nil, apperr.Unauthorized("Only students can submit reports")
	}

	var out *model.ReportModel
	err := s.store.Transaction(ctx, func(tx ReportStore) error {
		student, err := tx.LockStudentByUserID(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("lock student: %w", err)
		}
		if student == nil {
			return apperr.NotFound("Student profile not found")
		}

		now := s.clock.NowMs()
		existing, err := tx.FindReportSince(ctx, student.StudentID, s.Cutoff(now))
		if err != nil {
			return fmt.Errorf("find today's report: %w", err)
		}
		if existing != nil {
			return apperr.Conflict("Report already submitted for today")
		}

		r := &model.ReportModel{
			ReportID:          uuid.New(),
			ReportStudentID:   student.StudentID,
			ReportWakeTime:    now,
			ReportStatus:      model.ReportPendingTeacher,
			ReportWalk:        in.Walk,
			ReportExercise:    in.Exercise,
			ReportLateMinutes: s.policy.WakeDeadline.MinutesLate(now, s.policy.Location),
			ReportCreatedAt:   now,
			ReportUpdatedAt:   now,
		}
		if err := tx.CreateReport(ctx, r); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cutoff is the earliest wake time still inside the window ending at nowMs.
func (s *ReportService) Cutoff(nowMs int64) int64 {
	return nowMs - s.policy.Window.Milliseconds()
}

// ApproveReport moves a report one step along the approve table for the
// actor's role and appends an APPROVE action.
func (s *ReportService) ApproveReport(ctx context.Context, actor helperAuth.Actor, reportID uuid.UUID, notes string) (*model.ReportModel, error) {
	if _, _, known := NextOnApprove(actor.Role, model.ReportPendingTeacher); !known {
		return nil, apperr.Unauthorized("Unauthorized role for approval")
	}

	return s.decide(ctx, actor, reportID, model.ActionApprove, notes, func(r *model.ReportModel) error {
		next, ok, _ := NextOnApprove(actor.Role, r.ReportStatus)
		if ok {
			r.ReportStatus = next
			return nil
		}
		switch r.ReportStatus {
		case model.ReportApproved:
			return apperr.AlreadyApproved("Report already approved")
		case model.ReportRejected:
			return apperr.AlreadyRejected("Report already rejected")
		}
		return apperr.InvalidState(fmt.Sprintf("Report not pending %s approval", actor.Role))
	})
}

// RejectReport closes a pending report. Notes are mandatory.
func (s *ReportService) RejectReport(ctx context.Context, actor helperAuth.Actor, reportID uuid.UUID, notes string) (*model.ReportModel, error) {
	if !constants.HasRole(actor.Role, constants.TeacherAndAbove) {
		return nil, apperr.Unauthorized("Unauthorized role for rejection")
	}
	if strings.TrimSpace(notes) == "" {
		return nil, apperr.Validation("Rejection notes are required")
	}

	return s.decide(ctx, actor, reportID, model.ActionReject, notes, func(r *model.ReportModel) error {
		switch r.ReportStatus {
		case model.ReportRejected:
			return apperr.AlreadyRejected("Report already rejected")
		case model.ReportApproved:
			return apperr.InvalidState("Approved reports cannot be rejected")
		}
		r.ReportStatus = model.ReportRejected
		return nil
	})
}

func (s *ReportService) decide(ctx context.Context, actor helperAuth.Actor, reportID uuid.UUID, kind model.ReportActionType, notes string, apply func(r *model.ReportModel) error) (*model.ReportModel, error) {
	var out *model.ReportModel
	err := s.store.Transaction(ctx, func(tx ReportStore) error {
		r, err := tx.LockReport(ctx, reportID)
		if err != nil {
			return fmt.Errorf("lock report: %w", err)
		}
		if r == nil {
			return apperr.NotFound("Report not found")
		}
		if err := apply(r); err != nil {
			return err
		}

		now := s.clock.NowMs()
		r.ReportUpdatedAt = now
		if err := tx.SaveReport(ctx, r); err != nil {
			return fmt.Errorf("save report: %w", err)
		}

		action := &model.ReportActionModel{
			ReportActionID:          uuid.New(),
			ReportActionReportID:    r.ReportID,
			ReportActionActorUserID: actor.UserID,
			ReportActionActorRole:   actor.Role,
			ReportActionType:        kind,
			ReportActionTimestamp:   now,
		}
		if n := strings.TrimSpace(notes); n != "" {
			action.ReportActionNotes = &n
		}
		if err := tx.AppendAction(ctx, action); err != nil {
			return fmt.Errorf("append report action: %w", err)
		}
		r.Actions = append(r.Actions, *action)

		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
