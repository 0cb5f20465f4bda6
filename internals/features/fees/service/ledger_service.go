package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

const defaultDueDay = 10

type LedgerService struct {
	store LedgerStore
	clock dbtime.Clock
	loc   *time.Location
}

func NewLedgerService(store LedgerStore, clock dbtime.Clock, loc *time.Location) *LedgerService {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{store: store, clock: clock, loc: loc}
}

type SubmitTransactionInput struct {
	Month         int
	Year          int
	Amount        decimal.Decimal
	ProofPath     string
	PaymentMethod string
	Reference     string
}

func (in SubmitTransactionInput) validate() error {
	if in.Month < 1 || in.Month > 12 {
		return apperr.Validation("Month must be between 1 and 12")
	}
	if in.Year < 2000 || in.Year > 2100 {
		return apperr.Validation("Year is out of range")
	}
	if !in.Amount.IsPositive() {
		return apperr.Validation("Amount must be greater than zero")
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return apperr.Validation("Amount must have at most two decimal places")
	}
	return nil
}

// SubmitTransaction records a student's payment against the fee for the
// given month, creating the fee on first use.
func (s *LedgerService) SubmitTransaction(ctx context.Context, actor helperAuth.Actor, in SubmitTransactionInput) (*model.FeeTransactionModel, error) {
	if !actor.Is(constants.RoleStudent) {
		return nil, apperr.Unauthorized("Only students can submit fee payments")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *model.FeeTransactionModel
	err := s.store.Transaction(ctx, func(tx LedgerStore) error {
		student, err := tx.FindStudentByUserID(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("find student: %w", err)
		}
		if student == nil {
			return apperr.NotFound("Student profile not found")
		}

		fee, err := tx.LockFeeByPeriod(ctx, student.StudentID, in.Month, in.Year)
		if err != nil {
			return fmt.Errorf("lock fee: %w", err)
		}
		if fee == nil {
			if fee, err = s.openFee(ctx, tx, student, in.Month, in.Year); err != nil {
				return err
			}
		}

		if fee.FeeStatus.IsSettled() {
			return apperr.AlreadySettled(fmt.Sprintf("Fee for %02d/%d is already fully paid", in.Month, in.Year))
		}

		totals, err := tx.TransactionTotals(ctx, fee.FeeID)
		if err != nil {
			return fmt.Errorf("transaction totals: %w", err)
		}
		remaining := RemainingLimit(fee.FeeExpectedAmount, fee.FeePaidAmount, totals.PendingAmount)
		if in.Amount.GreaterThan(remaining) {
			return apperr.Newf(apperr.KindLimitExceeded,
				"Amount exceeds remaining balance. Max allowed: %s", decimal.Max(remaining, decimal.Zero).StringFixed(2))
		}

		now := s.clock.NowMs()
		t := &model.FeeTransactionModel{
			FeeTransactionID:            uuid.New(),
			FeeTransactionFeeID:         fee.FeeID,
			FeeTransactionAmount:        in.Amount,
			FeeTransactionStatus:        model.TransactionPending,
			FeeTransactionDate:          now,
			FeeTransactionPaymentMethod: optString(in.PaymentMethod),
			FeeTransactionReference:     optString(in.Reference),
			FeeTransactionProofPath:     optString(in.ProofPath),
			FeeTransactionCreatedAt:     now,
			FeeTransactionUpdatedAt:     now,
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		// re-open rejected / untouched fees for a fresh cycle
		switch fee.FeeStatus {
		case model.FeeStatusUnpaid, model.FeeStatusRejected:
			fee.FeeStatus = model.FeeStatusPendingAdmin
			fee.FeeRejectionReason = nil
		}
		fee.FeeUpdatedAt = now
		if err := tx.SaveFee(ctx, fee); err != nil {
			return fmt.Errorf("save fee: %w", err)
		}

		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveTransaction credits a pending transaction and re-derives the fee.
func (s *LedgerService) ApproveTransaction(ctx context.Context, actor helperAuth.Actor, transactionID uuid.UUID) (*model.FeeTransactionModel, error) {
	if !actor.Is(constants.RoleAdmin) {
		return nil, apperr.Unauthorized("Only admins can approve fee transactions")
	}

	var out *model.FeeTransactionModel
	err := s.store.Transaction(ctx, func(tx LedgerStore) error {
		fee, t, err := lockFeeAndTransaction(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		switch t.FeeTransactionStatus {
		case model.TransactionApproved:
			return apperr.AlreadyApproved("Transaction already approved")
		case model.TransactionRejected:
			return apperr.AlreadyRejected("Transaction already rejected")
		}

		now := s.clock.NowMs()
		t.FeeTransactionStatus = model.TransactionApproved
		t.FeeTransactionApprovedByUserID = &actor.UserID
		t.FeeTransactionApprovedAt = &now
		t.FeeTransactionUpdatedAt = now
		if err := tx.SaveTransaction(ctx, t); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		if _, err := recomputeFee(ctx, tx, fee); err != nil {
			return err
		}
		if fee.FeeStatus == model.FeeStatusApproved {
			if fee.FeePaidAt == nil {
				fee.FeePaidAt = &now
			}
			fee.FeeApprovedAt = &now
			fee.FeeApprovedByUserID = &actor.UserID
		}
		fee.FeeUpdatedAt = now
		if err := tx.SaveFee(ctx, fee); err != nil {
			return fmt.Errorf("save fee: %w", err)
		}

		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectTransaction closes a pending transaction without crediting it.
func (s *LedgerService) RejectTransaction(ctx context.Context, actor helperAuth.Actor, transactionID uuid.UUID, reason string) (*model.FeeTransactionModel, error) {
	if !actor.Is(constants.RoleAdmin) {
		return nil, apperr.Unauthorized("Only admins can reject fee transactions")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("Rejection reason is required")
	}

	var out *model.FeeTransactionModel
	err := s.store.Transaction(ctx, func(tx LedgerStore) error {
		fee, t, err := lockFeeAndTransaction(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		switch t.FeeTransactionStatus {
		case model.TransactionRejected:
			return apperr.AlreadyRejected("Transaction already rejected")
		case model.TransactionApproved:
			return apperr.AlreadyApproved("Transaction already approved")
		}

		now := s.clock.NowMs()
		t.FeeTransactionStatus = model.TransactionRejected
		t.FeeTransactionRejectionReason = &reason
		t.FeeTransactionApprovedByUserID = &actor.UserID
		t.FeeTransactionApprovedAt = &now
		t.FeeTransactionUpdatedAt = now
		if err := tx.SaveTransaction(ctx, t); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		if _, err := recomputeFee(ctx, tx, fee); err != nil {
			return err
		}
		if fee.FeeStatus == model.FeeStatusRejected {
			fee.FeeRejectionReason = &reason
		}
		fee.FeeUpdatedAt = now
		if err := tx.SaveFee(ctx, fee); err != nil {
			return fmt.Errorf("save fee: %w", err)
		}

		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockFeeAndTransaction locks fee before transaction, the same order
// SubmitTransaction uses, then re-reads the transaction under its lock.
func lockFeeAndTransaction(ctx context.Context, tx LedgerStore, transactionID uuid.UUID) (*model.FeeModel, *model.FeeTransactionModel, error) {
	peek, err := tx.FindTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("find transaction: %w", err)
	}
	if peek == nil {
		return nil, nil, apperr.NotFound("Transaction not found")
	}

	fee, err := tx.LockFee(ctx, peek.FeeTransactionFeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock fee: %w", err)
	}
	if fee == nil {
		return nil, nil, apperr.NotFound("Fee not found")
	}

	t, err := tx.LockTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock transaction: %w", err)
	}
	if t == nil {
		return nil, nil, apperr.NotFound("Transaction not found")
	}
	return fee, t, nil
}

// recomputeFee rewrites paid amount and status from the stored transactions.
func recomputeFee(ctx context.Context, tx LedgerStore, fee *model.FeeModel) (TransactionTotals, error) {
	totals, err := tx.TransactionTotals(ctx, fee.FeeID)
	if err != nil {
		return totals, fmt.Errorf("transaction totals: %w", err)
	}
	fee.FeePaidAmount = totals.ApprovedAmount
	fee.FeeStatus = DeriveFeeStatus(fee.FeeExpectedAmount, fee.FeePaidAmount, totals.PendingCount, totals.ApprovedCount)
	return totals, nil
}

// openFee creates the fee row for a period. The expected amount comes from
// the student's own rate, then the student's structure, then the default.
func (s *LedgerService) openFee(ctx context.Context, tx LedgerStore, student *studentModel.StudentModel, month, year int) (*model.FeeModel, error) {
	expected, structure, err := s.resolveRate(ctx, tx, student)
	if err != nil {
		return nil, err
	}

	dueDay := defaultDueDay
	var structureID *uuid.UUID
	if structure != nil {
		dueDay = structure.FeeStructureDueDay
		id := structure.FeeStructureID
		structureID = &id
	}
	due := time.Date(year, time.Month(month), dueDay, 23, 59, 59, 0, s.loc).UnixMilli()

	now := s.clock.NowMs()
	fee, err := tx.CreateFee(ctx, &model.FeeModel{
		FeeID:             uuid.New(),
		FeeStudentID:      student.StudentID,
		FeeStructureID:    structureID,
		FeeMonth:          month,
		FeeYear:           year,
		FeeExpectedAmount: expected,
		FeePaidAmount:     decimal.Zero,
		FeeLateFee:        decimal.Zero,
		FeeStatus:         model.FeeStatusPendingAdmin,
		FeeDueDate:        &due,
		FeeCreatedAt:      now,
		FeeUpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("create fee: %w", err)
	}
	return fee, nil
}

func (s *LedgerService) resolveRate(ctx context.Context, tx LedgerStore, student *studentModel.StudentModel) (decimal.Decimal, *model.FeeStructureModel, error) {
	var structure *model.FeeStructureModel
	if student.StudentFeeStructureID != nil {
		st, err := tx.FindFeeStructure(ctx, *student.StudentFeeStructureID)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("find fee structure: %w", err)
		}
		if st != nil && st.FeeStructureIsActive {
			structure = st
		}
	}
	if structure == nil {
		st, err := tx.FindDefaultFeeStructure(ctx)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("find default fee structure: %w", err)
		}
		structure = st
	}

	if student.HasMonthlyRate() {
		return *student.StudentMonthlyFee, structure, nil
	}
	if structure != nil {
		return structure.FeeStructureMonthlyAmount, structure, nil
	}
	return decimal.Zero, nil, apperr.NotFound("No monthly fee configured for this student")
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
