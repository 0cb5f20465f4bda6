package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
)

// memReports is an in-memory ReportStore; one mutex per unit of work and a
// snapshot restore on failure.
type memReports struct {
	mu       sync.Mutex
	students map[uuid.UUID]studentModel.StudentModel // keyed by user id
	reports  map[uuid.UUID]model.ReportModel
	actions  []model.ReportActionModel

	failAppend bool
}

var errInjected = errors.New("injected failure")

func newMemReports() *memReports {
	return &memReports{
		students: map[uuid.UUID]studentModel.StudentModel{},
		reports:  map[uuid.UUID]model.ReportModel{},
	}
}

func (m *memReports) Transaction(_ context.Context, fn func(tx ReportStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reports := make(map[uuid.UUID]model.ReportModel, len(m.reports))
	for k, v := range m.reports {
		reports[k] = v
	}
	actions := append([]model.ReportActionModel(nil), m.actions...)
	if err := fn(m); err != nil {
		m.reports, m.actions = reports, actions
		return err
	}
	return nil
}

func (m *memReports) LockStudentByUserID(_ context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	s, ok := m.students[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memReports) FindReportSince(_ context.Context, studentID uuid.UUID, sinceMs int64) (*model.ReportModel, error) {
	var best *model.ReportModel
	for _, r := range m.reports {
		if r.ReportStudentID != studentID || r.ReportWakeTime <= sinceMs {
			continue
		}
		if best == nil || r.ReportWakeTime > best.ReportWakeTime {
			r := r
			best = &r
		}
	}
	return best, nil
}

func (m *memReports) LockReport(_ context.Context, id uuid.UUID) (*model.ReportModel, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	r.Actions = m.actionsFor(id)
	return &r, nil
}

func (m *memReports) CreateReport(_ context.Context, r *model.ReportModel) error {
	m.reports[r.ReportID] = *r
	return nil
}

func (m *memReports) SaveReport(_ context.Context, r *model.ReportModel) error {
	m.reports[r.ReportID] = *r
	return nil
}

func (m *memReports) AppendAction(_ context.Context, a *model.ReportActionModel) error {
	if m.failAppend {
		return errInjected
	}
	m.actions = append(m.actions, *a)
	return nil
}

func (m *memReports) addStudent() studentModel.StudentModel {
	s := studentModel.StudentModel{
		StudentID:          uuid.New(),
		StudentUserID:      uuid.New(),
		StudentAdmissionNo: uuid.NewString()[:8],
	}
	m.students[s.StudentUserID] = s
	return s
}

func (m *memReports) actionsFor(reportID uuid.UUID) []model.ReportActionModel {
	var out []model.ReportActionModel
	for _, a := range m.actions {
		if a.ReportActionReportID == reportID {
			out = append(out, a)
		}
	}
	return out
}
