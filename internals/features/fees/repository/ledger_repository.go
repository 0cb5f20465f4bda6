package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/service"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
)

// LedgerRepository is the Postgres-backed service.LedgerStore.
type LedgerRepository struct {
	db *gorm.DB
}

var _ service.LedgerStore = (*LedgerRepository)(nil)

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Transaction(ctx context.Context, fn func(tx service.LedgerStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx})
	})
}

func (r *LedgerRepository) locking() *gorm.DB {
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *LedgerRepository) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return studentRepo.FindByUserID(ctx, r.db, userID)
}

func (r *LedgerRepository) FindFeeStructure(ctx context.Context, id uuid.UUID) (*model.FeeStructureModel, error) {
	var st model.FeeStructureModel
	err := r.db.WithContext(ctx).Where("fee_structure_id = ?", id).Take(&st).Error
	return nilIfMissing(&st, err)
}

func (r *LedgerRepository) FindDefaultFeeStructure(ctx context.Context) (*model.FeeStructureModel, error) {
	var st model.FeeStructureModel
	err := r.db.WithContext(ctx).
		Where("fee_structure_is_default = ? AND fee_structure_is_active = ?", true, true).
		Order("fee_structure_updated_at DESC").
		Take(&st).Error
	return nilIfMissing(&st, err)
}

func (r *LedgerRepository) LockFeeByPeriod(ctx context.Context, studentID uuid.UUID, month, year int) (*model.FeeModel, error) {
	var f model.FeeModel
	err := r.locking().WithContext(ctx).
		Where("fee_student_id = ? AND fee_month = ? AND fee_year = ?", studentID, month, year).
		Take(&f).Error
	return nilIfMissing(&f, err)
}

func (r *LedgerRepository) LockFee(ctx context.Context, feeID uuid.UUID) (*model.FeeModel, error) {
	var f model.FeeModel
	err := r.locking().WithContext(ctx).Where("fee_id = ?", feeID).Take(&f).Error
	return nilIfMissing(&f, err)
}

// CreateFee: INSERT ... ON CONFLICT DO NOTHING, lalu ambil ulang dengan lock.
// A concurrent creator of the same period blocks on the unique index until
// the other transaction ends, then reads the winner's row.
func (r *LedgerRepository) CreateFee(ctx context.Context, fee *model.FeeModel) (*model.FeeModel, error) {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fee_student_id"}, {Name: "fee_month"}, {Name: "fee_year"}},
			DoNothing: true,
		}).
		Create(fee).Error
	if err != nil {
		return nil, err
	}
	stored, err := r.LockFeeByPeriod(ctx, fee.FeeStudentID, fee.FeeMonth, fee.FeeYear)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("fee %02d/%d vanished after insert", fee.FeeMonth, fee.FeeYear)
	}
	return stored, nil
}

func (r *LedgerRepository) SaveFee(ctx context.Context, fee *model.FeeModel) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(fee).Error
}

func (r *LedgerRepository) FindTransaction(ctx context.Context, id uuid.UUID) (*model.FeeTransactionModel, error) {
	var t model.FeeTransactionModel
	err := r.db.WithContext(ctx).Where("fee_transaction_id = ?", id).Take(&t).Error
	return nilIfMissing(&t, err)
}

func (r *LedgerRepository) LockTransaction(ctx context.Context, id uuid.UUID) (*model.FeeTransactionModel, error) {
	var t model.FeeTransactionModel
	err := r.locking().WithContext(ctx).Where("fee_transaction_id = ?", id).Take(&t).Error
	return nilIfMissing(&t, err)
}

func (r *LedgerRepository) CreateTransaction(ctx context.Context, t *model.FeeTransactionModel) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *LedgerRepository) SaveTransaction(ctx context.Context, t *model.FeeTransactionModel) error {
	return r.db.WithContext(ctx).Save(t).Error
}

type statusTotal struct {
	Status string
	Cnt    int64
	Total  decimal.Decimal
}

func (r *LedgerRepository) TransactionTotals(ctx context.Context, feeID uuid.UUID) (service.TransactionTotals, error) {
	var rows []statusTotal
	err := r.db.WithContext(ctx).
		Model(&model.FeeTransactionModel{}).
		Select("fee_transaction_status AS status, COUNT(*) AS cnt, COALESCE(SUM(fee_transaction_amount), 0) AS total").
		Where("fee_transaction_fee_id = ?", feeID).
		Group("fee_transaction_status").
		Scan(&rows).Error
	if err != nil {
		return service.TransactionTotals{}, err
	}

	out := service.TransactionTotals{PendingAmount: decimal.Zero, ApprovedAmount: decimal.Zero}
	for _, row := range rows {
		switch model.TransactionStatus(row.Status) {
		case model.TransactionPending:
			out.PendingCount = row.Cnt
			out.PendingAmount = row.Total
		case model.TransactionApproved:
			out.ApprovedCount = row.Cnt
			out.ApprovedAmount = row.Total
		}
	}
	return out, nil
}

func nilIfMissing[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
