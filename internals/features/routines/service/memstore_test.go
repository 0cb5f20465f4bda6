package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

// memRoutines is an in-memory RoutineStore. CreateRoutine mirrors the
// partial unique index on active routines.
type memRoutines struct {
	mu       sync.Mutex
	students map[uuid.UUID]studentModel.StudentModel // keyed by user id
	routines map[uuid.UUID]model.RoutineModel

	failSave bool
}

var errInjected = errors.New("injected failure")

func newMemRoutines() *memRoutines {
	return &memRoutines{
		students: map[uuid.UUID]studentModel.StudentModel{},
		routines: map[uuid.UUID]model.RoutineModel{},
	}
}

func (m *memRoutines) Transaction(_ context.Context, fn func(tx RoutineStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[uuid.UUID]model.RoutineModel, len(m.routines))
	for k, v := range m.routines {
		snapshot[k] = v
	}
	if err := fn(m); err != nil {
		m.routines = snapshot
		return err
	}
	return nil
}

func (m *memRoutines) FindStudentByUserID(_ context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	s, ok := m.students[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memRoutines) LockStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return m.FindStudentByUserID(ctx, userID)
}

func (m *memRoutines) FindActiveRoutine(_ context.Context, studentID uuid.UUID) (*model.RoutineModel, error) {
	for _, r := range m.routines {
		if r.RoutineStudentID == studentID && r.RoutineStatus.IsActive() {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memRoutines) LockRoutine(_ context.Context, id uuid.UUID) (*model.RoutineModel, error) {
	r, ok := m.routines[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memRoutines) CreateRoutine(ctx context.Context, r *model.RoutineModel) error {
	if active, _ := m.FindActiveRoutine(ctx, r.RoutineStudentID); active != nil {
		return apperr.Conflict("active routine exists")
	}
	m.routines[r.RoutineID] = *r
	return nil
}

func (m *memRoutines) SaveRoutine(_ context.Context, r *model.RoutineModel) error {
	if m.failSave {
		return errInjected
	}
	m.routines[r.RoutineID] = *r
	return nil
}

func (m *memRoutines) addStudent() studentModel.StudentModel {
	s := studentModel.StudentModel{
		StudentID:          uuid.New(),
		StudentUserID:      uuid.New(),
		StudentAdmissionNo: "ADM-" + uuid.NewString()[:8],
	}
	m.students[s.StudentUserID] = s
	return s
}

func (m *memRoutines) activeCount(studentID uuid.UUID) int {
	n := 0
	for _, r := range m.routines {
		if r.RoutineStudentID == studentID && r.RoutineStatus.IsActive() {
			n++
		}
	}
	return n
}

func stepClock(start int64) dbtime.Clock {
	var n atomic.Int64
	n.Store(start)
	return dbtime.ClockFunc(func() int64 { return n.Add(1000) })
}
