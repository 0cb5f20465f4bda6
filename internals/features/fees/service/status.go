package service

import (
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
)

// DeriveFeeStatus computes a fee's status from its transaction set. It is the
// only place fee status is decided after an approve or reject.
//
// A positive paid amount counts as proof of a past approval even when
// approvedCount is zero.
func DeriveFeeStatus(expected, paid decimal.Decimal, pendingCount, approvedCount int64) model.FeeStatus {
	settledSomething := paid.IsPositive() || approvedCount > 0

	switch {
	case settledSomething && paid.GreaterThanOrEqual(expected):
		return model.FeeStatusApproved
	case pendingCount > 0:
		return model.FeeStatusPendingAdmin
	case settledSomething:
		return model.FeeStatusPartial
	default:
		return model.FeeStatusRejected
	}
}

// RemainingLimit = expected - approved - pending. May be negative for rows
// written before the limit was enforced.
func RemainingLimit(expected, paid, pending decimal.Decimal) decimal.Decimal {
	return expected.Sub(paid).Sub(pending)
}
