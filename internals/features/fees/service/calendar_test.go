package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
)

func TestBuildFeeCalendarFillsMissingMonths(t *testing.T) {
	sid := uuid.New()
	students := []CalendarStudent{{StudentID: sid, FullName: "Ali", AdmissionNo: "A-1", MonthlyRate: dec("100")}}
	fees := []model.FeeModel{
		{FeeID: uuid.New(), FeeStudentID: sid, FeeMonth: 1, FeeExpectedAmount: dec("100"), FeePaidAmount: dec("100"), FeeStatus: model.FeeStatusApproved},
		{FeeID: uuid.New(), FeeStudentID: sid, FeeMonth: 2, FeeExpectedAmount: dec("120"), FeePaidAmount: dec("50"), FeeStatus: model.FeeStatusPartial},
		// another student's fee is ignored
		{FeeID: uuid.New(), FeeStudentID: uuid.New(), FeeMonth: 3, FeeExpectedAmount: dec("100"), FeePaidAmount: dec("100"), FeeStatus: model.FeeStatusApproved},
	}

	rows := BuildFeeCalendar(students, fees)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Len(t, row.Months, 12)

	assert.Equal(t, model.FeeStatusApproved, row.Months[0].Status)
	assert.NotNil(t, row.Months[0].FeeID)
	assert.Equal(t, model.FeeStatusPartial, row.Months[1].Status)
	assert.Equal(t, model.FeeStatusUnpaid, row.Months[2].Status)
	assert.Nil(t, row.Months[2].FeeID)
	assert.True(t, row.Months[2].ExpectedAmount.Equal(dec("100")))

	// 100 + 120 + 10*100
	assert.True(t, row.TotalExpected.Equal(dec("1220")), row.TotalExpected.String())
	assert.True(t, row.TotalPaid.Equal(dec("150")))
	assert.True(t, row.TotalRemaining.Equal(dec("1070")))
}

func TestBuildFeeCalendarEmpty(t *testing.T) {
	assert.Empty(t, BuildFeeCalendar(nil, nil))
}

func TestBuildFeeStats(t *testing.T) {
	fees := []model.FeeModel{
		{FeeStatus: model.FeeStatusApproved, FeeExpectedAmount: dec("100"), FeePaidAmount: dec("100")},
		{FeeStatus: model.FeeStatusPaid, FeeExpectedAmount: dec("100"), FeePaidAmount: dec("100")},
		{FeeStatus: model.FeeStatusPendingAdmin, FeeExpectedAmount: dec("100"), FeePaidAmount: decimal.Zero},
		{FeeStatus: model.FeeStatusPartial, FeeExpectedAmount: dec("100"), FeePaidAmount: dec("40")},
		{FeeStatus: model.FeeStatusRejected, FeeExpectedAmount: dec("100"), FeePaidAmount: decimal.Zero},
	}
	st := BuildFeeStats(6, 2025, 8, fees)

	assert.Equal(t, int64(2), st.PaidCount)
	assert.Equal(t, int64(1), st.PendingCount)
	assert.Equal(t, int64(1), st.PartialCount)
	assert.Equal(t, int64(4), st.UnpaidCount)
	assert.True(t, st.CollectedAmount.Equal(dec("240")))
	assert.True(t, st.ExpectedTotal.Equal(dec("500")))
}

func TestBuildFeeStatsNeverNegative(t *testing.T) {
	fees := []model.FeeModel{{FeeStatus: model.FeeStatusApproved}, {FeeStatus: model.FeeStatusApproved}}
	st := BuildFeeStats(1, 2025, 1, fees)
	assert.Equal(t, int64(0), st.UnpaidCount)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
