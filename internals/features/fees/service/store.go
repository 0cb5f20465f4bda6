package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
)

// TransactionTotals aggregates a fee's transactions per status.
type TransactionTotals struct {
	PendingCount   int64
	PendingAmount  decimal.Decimal
	ApprovedCount  int64
	ApprovedAmount decimal.Decimal
}

// LedgerStore is the record store the ledger runs on. Find*/Lock* return
// nil, nil when no row matches; Lock* take a write lock held until the
// surrounding Transaction ends.
type LedgerStore interface {
	Transaction(ctx context.Context, fn func(tx LedgerStore) error) error

	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error)
	FindFeeStructure(ctx context.Context, id uuid.UUID) (*model.FeeStructureModel, error)
	FindDefaultFeeStructure(ctx context.Context) (*model.FeeStructureModel, error)

	LockFeeByPeriod(ctx context.Context, studentID uuid.UUID, month, year int) (*model.FeeModel, error)
	LockFee(ctx context.Context, feeID uuid.UUID) (*model.FeeModel, error)
	// CreateFee inserts fee unless its (student, month, year) already exists
	// and returns the stored row, locked.
	CreateFee(ctx context.Context, fee *model.FeeModel) (*model.FeeModel, error)
	SaveFee(ctx context.Context, fee *model.FeeModel) error

	FindTransaction(ctx context.Context, id uuid.UUID) (*model.FeeTransactionModel, error)
	LockTransaction(ctx context.Context, id uuid.UUID) (*model.FeeTransactionModel, error)
	CreateTransaction(ctx context.Context, t *model.FeeTransactionModel) error
	SaveTransaction(ctx context.Context, t *model.FeeTransactionModel) error
	TransactionTotals(ctx context.Context, feeID uuid.UUID) (TransactionTotals, error)
}
