package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
)

// CalendarStudent is the per-student input of the fee calendar.
type CalendarStudent struct {
	StudentID   uuid.UUID
	FullName    string
	AdmissionNo string
	MonthlyRate decimal.Decimal
}

type CalendarMonth struct {
	Month          int             `json:"month"`
	FeeID          *uuid.UUID      `json:"fee_id,omitempty"`
	Status         model.FeeStatus `json:"status"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
}

type CalendarRow struct {
	StudentID      uuid.UUID       `json:"student_id"`
	FullName       string          `json:"full_name"`
	AdmissionNo    string          `json:"admission_no"`
	Months         []CalendarMonth `json:"months"`
	TotalExpected  decimal.Decimal `json:"total_expected"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

// BuildFeeCalendar lays fees out as a 12-month matrix per student. Months
// without a fee row are reported UNPAID at the student's monthly rate.
func BuildFeeCalendar(students []CalendarStudent, fees []model.FeeModel) []CalendarRow {
	type key struct {
		student uuid.UUID
		month   int
	}
	byKey := make(map[key]model.FeeModel, len(fees))
	for _, f := range fees {
		byKey[key{f.FeeStudentID, f.FeeMonth}] = f
	}

	rows := make([]CalendarRow, 0, len(students))
	for _, s := range students {
		row := CalendarRow{
			StudentID:     s.StudentID,
			FullName:      s.FullName,
			AdmissionNo:   s.AdmissionNo,
			Months:        make([]CalendarMonth, 0, 12),
			TotalExpected: decimal.Zero,
			TotalPaid:     decimal.Zero,
		}
		for m := 1; m <= 12; m++ {
			cell := CalendarMonth{
				Month:          m,
				Status:         model.FeeStatusUnpaid,
				ExpectedAmount: s.MonthlyRate,
				PaidAmount:     decimal.Zero,
			}
			if f, ok := byKey[key{s.StudentID, m}]; ok {
				id := f.FeeID
				cell.FeeID = &id
				cell.Status = f.FeeStatus
				cell.ExpectedAmount = f.FeeExpectedAmount
				cell.PaidAmount = f.FeePaidAmount
			}
			row.TotalExpected = row.TotalExpected.Add(cell.ExpectedAmount)
			row.TotalPaid = row.TotalPaid.Add(cell.PaidAmount)
			row.Months = append(row.Months, cell)
		}
		row.TotalRemaining = decimal.Max(row.TotalExpected.Sub(row.TotalPaid), decimal.Zero)
		rows = append(rows, row)
	}
	return rows
}

// FeeStats summarises one month of fees across all students.
type FeeStats struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	TotalStudents   int64           `json:"total_students"`
	PaidCount       int64           `json:"paid_count"`
	PendingCount    int64           `json:"pending_count"`
	PartialCount    int64           `json:"partial_count"`
	UnpaidCount     int64           `json:"unpaid_count"`
	ExpectedTotal   decimal.Decimal `json:"expected_total"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
}

// BuildFeeStats counts fees by status. Students without a fee row, and fees
// in UNPAID or REJECTED, both count as unpaid.
func BuildFeeStats(month, year int, totalStudents int64, fees []model.FeeModel) FeeStats {
	st := FeeStats{
		Month:           month,
		Year:            year,
		TotalStudents:   totalStudents,
		ExpectedTotal:   decimal.Zero,
		CollectedAmount: decimal.Zero,
	}
	for _, f := range fees {
		switch f.FeeStatus {
		case model.FeeStatusApproved, model.FeeStatusPaid:
			st.PaidCount++
		case model.FeeStatusPendingAdmin:
			st.PendingCount++
		case model.FeeStatusPartial:
			st.PartialCount++
		}
		st.ExpectedTotal = st.ExpectedTotal.Add(f.FeeExpectedAmount)
		st.CollectedAmount = st.CollectedAmount.Add(f.FeePaidAmount)
	}
	st.UnpaidCount = totalStudents - st.PaidCount - st.PendingCount - st.PartialCount
	if st.UnpaidCount < 0 {
		st.UnpaidCount = 0
	}
	return st
}
