package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "PENDING"
	TransactionApproved TransactionStatus = "APPROVED"
	TransactionRejected TransactionStatus = "REJECTED"
)

// IsTerminal: APPROVED dan REJECTED tidak pernah berubah lagi.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionApproved || s == TransactionRejected
}

type FeeTransactionModel struct {
	FeeTransactionID     uuid.UUID         `json:"fee_transaction_id" gorm:"column:fee_transaction_id;type:uuid;default:gen_random_uuid();primaryKey"`
	FeeTransactionFeeID  uuid.UUID         `json:"fee_transaction_fee_id" gorm:"column:fee_transaction_fee_id;type:uuid;not null;index:idx_fee_transactions_fee_status,priority:1"`
	FeeTransactionAmount decimal.Decimal   `json:"fee_transaction_amount" gorm:"column:fee_transaction_amount;type:numeric(10,2);not null"`
	FeeTransactionStatus TransactionStatus `json:"fee_transaction_status" gorm:"column:fee_transaction_status;type:varchar(10);not null;default:'PENDING';index:idx_fee_transactions_fee_status,priority:2"`

	FeeTransactionDate          int64   `json:"fee_transaction_date" gorm:"column:fee_transaction_date;not null"`
	FeeTransactionPaymentMethod *string `json:"fee_transaction_payment_method,omitempty" gorm:"column:fee_transaction_payment_method;type:varchar(30)"`
	FeeTransactionReference     *string `json:"fee_transaction_reference,omitempty" gorm:"column:fee_transaction_reference;type:varchar(100)"`
	FeeTransactionProofPath     *string `json:"fee_transaction_proof_path,omitempty" gorm:"column:fee_transaction_proof_path;type:text"`

	FeeTransactionRejectionReason  *string    `json:"fee_transaction_rejection_reason,omitempty" gorm:"column:fee_transaction_rejection_reason;type:text"`
	FeeTransactionApprovedByUserID *uuid.UUID `json:"fee_transaction_approved_by_user_id,omitempty" gorm:"column:fee_transaction_approved_by_user_id;type:uuid"`
	FeeTransactionApprovedAt       *int64     `json:"fee_transaction_approved_at,omitempty" gorm:"column:fee_transaction_approved_at"`

	FeeTransactionCreatedAt int64 `json:"fee_transaction_created_at" gorm:"column:fee_transaction_created_at;not null"`
	FeeTransactionUpdatedAt int64 `json:"fee_transaction_updated_at" gorm:"column:fee_transaction_updated_at;not null"`
}

func (FeeTransactionModel) TableName() string { return "fee_transactions" }
