package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

type RoutineService struct {
	store RoutineStore
	clock dbtime.Clock
}

func NewRoutineService(store RoutineStore, clock dbtime.Clock) *RoutineService {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &RoutineService{store: store, clock: clock}
}

// CreateRoutineInput carries a walk/exit request. Payload is a free JSON
// object; expected_return_time, companions and destination are lifted out of
// it when present.
type CreateRoutineInput struct {
	Type    model.RoutineType
	Payload []byte
}

type payloadFields struct {
	ExpectedReturnTime *int64   `json:"expected_return_time"`
	Companions         []string `json:"companions"`
	Destination        *string  `json:"destination"`
}

func (in CreateRoutineInput) parse() (datatypes.JSON, payloadFields, error) {
	var pf payloadFields
	if !in.Type.Requestable() {
		return nil, pf, apperr.Validation("Invalid type. Must be walk or exit")
	}
	raw := strings.TrimSpace(string(in.Payload))
	if raw == "" || raw == "null" {
		return datatypes.JSON("{}"), pf, nil
	}
	if !strings.HasPrefix(raw, "{") {
		return nil, pf, apperr.Validation("Payload must be a JSON object")
	}
	if err := sonic.UnmarshalString(raw, &pf); err != nil {
		return nil, pf, apperr.Validation("Payload is not valid JSON")
	}
	if pf.ExpectedReturnTime != nil && *pf.ExpectedReturnTime <= 0 {
		return nil, pf, apperr.Validation("expected_return_time must be a positive epoch millisecond value")
	}
	return datatypes.JSON(raw), pf, nil
}

// CreateRequest opens a walk or exit request for the calling student.
func (s *RoutineService) CreateRequest(ctx context.Context, actor helperAuth.Actor, in CreateRoutineInput) (*model.RoutineModel, error) {
	if !actor.Is(constants.RoleStudent) {
		return nil, apperr.Unauthorized("Only students can create routine requests")
	}
	payload, pf, err := in.parse()
	if err != nil {
		return nil, err
	}

	var out *model.RoutineModel
	err = s.store.Transaction(ctx, func(tx RoutineStore) error {
		student, err := tx.LockStudentByUserID(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("lock student: %w", err)
		}
		if student == nil {
			return apperr.NotFound("Student profile not found")
		}

		active, err := tx.FindActiveRoutine(ctx, student.StudentID)
		if err != nil {
			return fmt.Errorf("find active routine: %w", err)
		}
		if active != nil {
			return activeConflict(active)
		}

		now := s.clock.NowMs()
		companions := pq.StringArray{}
		for _, c := range pf.Companions {
			if c = strings.TrimSpace(c); c != "" {
				companions = append(companions, c)
			}
		}
		r := &model.RoutineModel{
			RoutineID:                 uuid.New(),
			RoutineStudentID:          student.StudentID,
			RoutineType:               in.Type,
			RoutineStatus:             model.RoutinePendingManager,
			RoutineRequestAt:          now,
			RoutinePayload:            payload,
			RoutineCompanions:         companions,
			RoutineDestination:        trimmedOrNil(pf.Destination),
			RoutineExpectedReturnTime: pf.ExpectedReturnTime,
			RoutineCreatedAt:          now,
			RoutineUpdatedAt:          now,
		}
		if err := tx.CreateRoutine(ctx, r); err != nil {
			if apperr.KindOf(err) != "" {
				return err
			}
			return fmt.Errorf("create routine: %w", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func activeConflict(active *model.RoutineModel) error {
	if active.RoutineStatus == model.RoutinePendingManager {
		return apperr.Conflict(fmt.Sprintf("You already have a pending %s request", active.RoutineType))
	}
	return apperr.Conflict(fmt.Sprintf("You are currently out on %s. Please request return first.", active.RoutineType))
}

// ApproveRequest: exit → APPROVED_PENDING_RETURN, walk → COMPLETED.
func (s *RoutineService) ApproveRequest(ctx context.Context, actor helperAuth.Actor, routineID uuid.UUID, notes string) (*model.RoutineModel, error) {
	if !constants.HasRole(actor.Role, constants.RoutineManagers) {
		return nil, apperr.Unauthorized("Only routine managers can approve routines")
	}
	return s.transition(ctx, routineID, func(r *model.RoutineModel, now int64) error {
		if r.RoutineStatus != model.RoutinePendingManager {
			return apperr.InvalidState("Request not pending approval")
		}
		switch r.RoutineType {
		case model.RoutineExit:
			r.RoutineStatus = model.RoutineApprovedPendingReturn
		case model.RoutineWalk:
			r.RoutineStatus = model.RoutineCompleted
		default:
			return apperr.InvalidState(fmt.Sprintf("Routine type %q cannot be approved", r.RoutineType))
		}
		review(r, actor, notes, now)
		return nil
	})
}

// RequestReturn is the owning student announcing they are back.
func (s *RoutineService) RequestReturn(ctx context.Context, actor helperAuth.Actor, routineID uuid.UUID) (*model.RoutineModel, error) {
	if !actor.Is(constants.RoleStudent) {
		return nil, apperr.Unauthorized("Only students can request a return")
	}

	var out *model.RoutineModel
	err := s.store.Transaction(ctx, func(tx RoutineStore) error {
		r, err := lockRoutine(ctx, tx, routineID)
		if err != nil {
			return err
		}
		student, err := tx.FindStudentByUserID(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("find student: %w", err)
		}
		if student == nil || student.StudentID != r.RoutineStudentID {
			return apperr.Unauthorized("Unauthorized")
		}
		if r.RoutineStatus != model.RoutineApprovedPendingReturn {
			return apperr.InvalidState("Routine not in correct state for return")
		}

		now := s.clock.NowMs()
		r.RoutineStatus = model.RoutinePendingReturnApproval
		r.RoutineActualReturnTime = &now
		r.RoutineUpdatedAt = now
		if err := tx.SaveRoutine(ctx, r); err != nil {
			return fmt.Errorf("save routine: %w", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConfirmReturn closes an exit once the manager has seen the student back.
func (s *RoutineService) ConfirmReturn(ctx context.Context, actor helperAuth.Actor, routineID uuid.UUID, notes string) (*model.RoutineModel, error) {
	if !constants.HasRole(actor.Role, constants.RoutineManagers) {
		return nil, apperr.Unauthorized("Only routine managers can confirm returns")
	}
	return s.transition(ctx, routineID, func(r *model.RoutineModel, now int64) error {
		if r.RoutineStatus != model.RoutinePendingReturnApproval {
			return apperr.InvalidState("Routine not pending return approval")
		}
		r.RoutineStatus = model.RoutineCompleted
		review(r, actor, notes, now)
		return nil
	})
}

// RejectRequest: PENDING_ROUTINE_MANAGER → REJECTED,
// PENDING_RETURN_APPROVAL → RETURN_REJECTED.
func (s *RoutineService) RejectRequest(ctx context.Context, actor helperAuth.Actor, routineID uuid.UUID, reason string) (*model.RoutineModel, error) {
	if !constants.HasRole(actor.Role, constants.RoutineManagers) {
		return nil, apperr.Unauthorized("Only routine managers can reject routines")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("Rejection reason is required")
	}
	return s.transition(ctx, routineID, func(r *model.RoutineModel, now int64) error {
		switch r.RoutineStatus {
		case model.RoutinePendingManager:
			r.RoutineStatus = model.RoutineRejected
		case model.RoutinePendingReturnApproval:
			r.RoutineStatus = model.RoutineReturnRejected
		default:
			return apperr.InvalidState("Routine not pending approval")
		}
		r.RoutineRejectionReason = &reason
		review(r, actor, "", now)
		return nil
	})
}

// transition locks the routine, lets apply validate and mutate it, then saves.
func (s *RoutineService) transition(ctx context.Context, routineID uuid.UUID, apply func(r *model.RoutineModel, now int64) error) (*model.RoutineModel, error) {
	var out *model.RoutineModel
	err := s.store.Transaction(ctx, func(tx RoutineStore) error {
		r, err := lockRoutine(ctx, tx, routineID)
		if err != nil {
			return err
		}
		now := s.clock.NowMs()
		if err := apply(r, now); err != nil {
			return err
		}
		r.RoutineUpdatedAt = now
		if err := tx.SaveRoutine(ctx, r); err != nil {
			return fmt.Errorf("save routine: %w", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lockRoutine(ctx context.Context, tx RoutineStore, id uuid.UUID) (*model.RoutineModel, error) {
	r, err := tx.LockRoutine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock routine: %w", err)
	}
	if r == nil {
		return nil, apperr.NotFound("Routine not found")
	}
	return r, nil
}

func review(r *model.RoutineModel, actor helperAuth.Actor, notes string, now int64) {
	uid := actor.UserID
	r.RoutineReviewedByUserID = &uid
	r.RoutineReviewedAt = &now
	if notes = strings.TrimSpace(notes); notes != "" {
		r.RoutineManagerNotes = &notes
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
