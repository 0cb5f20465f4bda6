package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

// memLedger is an in-memory LedgerStore. Transaction holds one mutex for the
// whole unit of work (standing in for row locks) and restores a snapshot when
// fn fails.
type memLedger struct {
	mu         sync.Mutex
	students   map[uuid.UUID]studentModel.StudentModel // keyed by user id
	structures map[uuid.UUID]model.FeeStructureModel
	fees       map[uuid.UUID]model.FeeModel
	txs        map[uuid.UUID]model.FeeTransactionModel

	failSaveFee bool
}

var errInjected = errors.New("injected failure")

func newMemLedger() *memLedger {
	return &memLedger{
		students:   map[uuid.UUID]studentModel.StudentModel{},
		structures: map[uuid.UUID]model.FeeStructureModel{},
		fees:       map[uuid.UUID]model.FeeModel{},
		txs:        map[uuid.UUID]model.FeeTransactionModel{},
	}
}

func (m *memLedger) Transaction(ctx context.Context, fn func(tx LedgerStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fees := cloneMap(m.fees)
	txs := cloneMap(m.txs)
	if err := fn(m); err != nil {
		m.fees, m.txs = fees, txs
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memLedger) FindStudentByUserID(_ context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	s, ok := m.students[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memLedger) FindFeeStructure(_ context.Context, id uuid.UUID) (*model.FeeStructureModel, error) {
	st, ok := m.structures[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *memLedger) FindDefaultFeeStructure(_ context.Context) (*model.FeeStructureModel, error) {
	for _, st := range m.structures {
		if st.FeeStructureIsDefault && st.FeeStructureIsActive {
			return &st, nil
		}
	}
	return nil, nil
}

func (m *memLedger) LockFeeByPeriod(_ context.Context, studentID uuid.UUID, month, year int) (*model.FeeModel, error) {
	for _, f := range m.fees {
		if f.FeeStudentID == studentID && f.FeeMonth == month && f.FeeYear == year {
			return &f, nil
		}
	}
	return nil, nil
}

func (m *memLedger) LockFee(_ context.Context, feeID uuid.UUID) (*model.FeeModel, error) {
	f, ok := m.fees[feeID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *memLedger) CreateFee(ctx context.Context, fee *model.FeeModel) (*model.FeeModel, error) {
	if existing, _ := m.LockFeeByPeriod(ctx, fee.FeeStudentID, fee.FeeMonth, fee.FeeYear); existing != nil {
		return existing, nil
	}
	m.fees[fee.FeeID] = *fee
	out := *fee
	return &out, nil
}

func (m *memLedger) SaveFee(_ context.Context, fee *model.FeeModel) error {
	if m.failSaveFee {
		return errInjected
	}
	m.fees[fee.FeeID] = *fee
	return nil
}

func (m *memLedger) FindTransaction(_ context.Context, id uuid.UUID) (*model.FeeTransactionModel, error) {
	t, ok := m.txs[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memLedger) LockTransaction(ctx context.Context, id uuid.UUID) (*model.FeeTransactionModel, error) {
	return m.FindTransaction(ctx, id)
}

func (m *memLedger) CreateTransaction(_ context.Context, t *model.FeeTransactionModel) error {
	m.txs[t.FeeTransactionID] = *t
	return nil
}

func (m *memLedger) SaveTransaction(_ context.Context, t *model.FeeTransactionModel) error {
	m.txs[t.FeeTransactionID] = *t
	return nil
}

func (m *memLedger) TransactionTotals(_ context.Context, feeID uuid.UUID) (TransactionTotals, error) {
	var out TransactionTotals
	for _, t := range m.txs {
		if t.FeeTransactionFeeID != feeID {
			continue
		}
		switch t.FeeTransactionStatus {
		case model.TransactionPending:
			out.PendingCount++
			out.PendingAmount = out.PendingAmount.Add(t.FeeTransactionAmount)
		case model.TransactionApproved:
			out.ApprovedCount++
			out.ApprovedAmount = out.ApprovedAmount.Add(t.FeeTransactionAmount)
		}
	}
	return out, nil
}

/* ---------- fixtures ---------- */

func (m *memLedger) addStudent(rate string) studentModel.StudentModel {
	s := studentModel.StudentModel{
		StudentID:          uuid.New(),
		StudentUserID:      uuid.New(),
		StudentAdmissionNo: uuid.NewString()[:8],
	}
	if rate != "" {
		d := decimal.RequireFromString(rate)
		s.StudentMonthlyFee = &d
	}
	m.students[s.StudentUserID] = s
	return s
}

func (m *memLedger) addStructure(amount string, isDefault bool) model.FeeStructureModel {
	st := model.FeeStructureModel{
		FeeStructureID:            uuid.New(),
		FeeStructureName:          "Standard",
		FeeStructureMonthlyAmount: decimal.RequireFromString(amount),
		FeeStructureDueDay:        5,
		FeeStructureIsDefault:     isDefault,
		FeeStructureIsActive:      true,
	}
	m.structures[st.FeeStructureID] = st
	return st
}

func (m *memLedger) feeFor(studentID uuid.UUID, month, year int) *model.FeeModel {
	f, _ := m.LockFeeByPeriod(context.Background(), studentID, month, year)
	return f
}

// approvedSum is the sum of APPROVED transaction amounts on a fee.
func (m *memLedger) approvedSum(feeID uuid.UUID) decimal.Decimal {
	t, _ := m.TransactionTotals(context.Background(), feeID)
	return t.ApprovedAmount
}

func stepClock(start int64) dbtime.Clock {
	var n atomic.Int64
	n.Store(start)
	return dbtime.ClockFunc(func() int64 { return n.Add(1000) })
}
