package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/service"
)

/* =======================================================
   REQUESTS
======================================================= */

type SubmitFeeRequest struct {
	Month         int             `json:"month" validate:"required,min=1,max=12"`
	Year          int             `json:"year" validate:"required,min=2000,max=2100"`
	Amount        decimal.Decimal `json:"amount"`
	ProofPath     string          `json:"proof_path" validate:"omitempty,max=500"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer card online"`
	Reference     string          `json:"reference" validate:"omitempty,max=100"`
}

func (r SubmitFeeRequest) ToInput() service.SubmitTransactionInput {
	return service.SubmitTransactionInput{
		Month:         r.Month,
		Year:          r.Year,
		Amount:        r.Amount,
		ProofPath:     strings.TrimSpace(r.ProofPath),
		PaymentMethod: strings.TrimSpace(r.PaymentMethod),
		Reference:     strings.TrimSpace(r.Reference),
	}
}

type RejectTransactionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

/* =======================================================
   RESPONSES
======================================================= */

type FeeResponse struct {
	FeeID              uuid.UUID       `json:"fee_id"`
	StudentID          uuid.UUID       `json:"student_id"`
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	ExpectedAmount     decimal.Decimal `json:"expected_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PendingAmount      decimal.Decimal `json:"pending_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	LateFee            decimal.Decimal `json:"late_fee"`
	Status             model.FeeStatus `json:"status"`
	RejectionReason    *string         `json:"rejection_reason,omitempty"`
	DueDate            *int64          `json:"due_date,omitempty"`
	PaidAt             *int64          `json:"paid_at,omitempty"`
	ApprovedAt         *int64          `json:"approved_at,omitempty"`
	CreatedAt          int64           `json:"created_at"`
	UpdatedAt          int64           `json:"updated_at"`
	PendingTransaction int             `json:"pending_transactions"`
}

// ToFeeResponse builds the response; pending figures come from the preloaded
// Transactions when present.
func ToFeeResponse(f model.FeeModel) FeeResponse {
	pending := decimal.Zero
	pendingCount := 0
	for _, t := range f.Transactions {
		if t.FeeTransactionStatus == model.TransactionPending {
			pending = pending.Add(t.FeeTransactionAmount)
			pendingCount++
		}
	}
	return FeeResponse{
		FeeID:              f.FeeID,
		StudentID:          f.FeeStudentID,
		Month:              f.FeeMonth,
		Year:               f.FeeYear,
		ExpectedAmount:     f.FeeExpectedAmount,
		PaidAmount:         f.FeePaidAmount,
		PendingAmount:      pending,
		RemainingAmount:    decimal.Max(f.FeeExpectedAmount.Sub(f.FeePaidAmount), decimal.Zero),
		LateFee:            f.FeeLateFee,
		Status:             f.FeeStatus,
		RejectionReason:    f.FeeRejectionReason,
		DueDate:            f.FeeDueDate,
		PaidAt:             f.FeePaidAt,
		ApprovedAt:         f.FeeApprovedAt,
		CreatedAt:          f.FeeCreatedAt,
		UpdatedAt:          f.FeeUpdatedAt,
		PendingTransaction: pendingCount,
	}
}

type TransactionResponse struct {
	TransactionID   uuid.UUID               `json:"transaction_id"`
	FeeID           uuid.UUID               `json:"fee_id"`
	Amount          decimal.Decimal         `json:"amount"`
	Status          model.TransactionStatus `json:"status"`
	TransactionDate int64                   `json:"transaction_date"`
	PaymentMethod   *string                 `json:"payment_method,omitempty"`
	Reference       *string                 `json:"reference,omitempty"`
	ProofPath       *string                 `json:"proof_path,omitempty"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
	ApprovedBy      *uuid.UUID              `json:"approved_by,omitempty"`
	ApprovedAt      *int64                  `json:"approved_at,omitempty"`
}

func ToTransactionResponse(t model.FeeTransactionModel) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.FeeTransactionID,
		FeeID:           t.FeeTransactionFeeID,
		Amount:          t.FeeTransactionAmount,
		Status:          t.FeeTransactionStatus,
		TransactionDate: t.FeeTransactionDate,
		PaymentMethod:   t.FeeTransactionPaymentMethod,
		Reference:       t.FeeTransactionReference,
		ProofPath:       t.FeeTransactionProofPath,
		RejectionReason: t.FeeTransactionRejectionReason,
		ApprovedBy:      t.FeeTransactionApprovedByUserID,
		ApprovedAt:      t.FeeTransactionApprovedAt,
	}
}

func ToTransactionResponses(rows []model.FeeTransactionModel) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}
