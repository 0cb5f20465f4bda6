package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/service"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

// GET /api/fees?status=&month=&year=&student_id=&page=&per_page=
func (ctl *FeeController) ListFees(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	q := scope.Apply(ctl.DB.WithContext(ctx).Model(&model.FeeModel{}), "fee_student_id")

	// filter hanya berlaku untuk staff
	if !actor.Is(constants.RoleStudent) {
		if raw := strings.TrimSpace(c.Query("student_id")); raw != "" {
			sid, err := uuid.Parse(raw)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id")
			}
			q = q.Where("fee_student_id = ?", sid)
		}
	}
	if st := strings.ToUpper(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("fee_status = ?", st)
	}
	if m := c.QueryInt("month"); m != 0 {
		q = q.Where("fee_month = ?", m)
	}
	if y := c.QueryInt("year"); y != 0 {
		q = q.Where("fee_year = ?", y)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	var rows []model.FeeModel
	if err := q.
		Preload("Transactions", "fee_transaction_status = ?", model.TransactionPending).
		Order("fee_year DESC, fee_month DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	out := make([]dto.FeeResponse, 0, len(rows))
	for _, f := range rows {
		out = append(out, dto.ToFeeResponse(f))
	}
	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(out))
	return helper.JsonList(c, "Fees fetched", out, &pg)
}

// GET /api/fees/:id/transactions
func (ctl *FeeController) ListFeeTransactions(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	feeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid fee id")
	}
	ctx := c.UserContext()

	var fee model.FeeModel
	if err := ctl.DB.WithContext(ctx).Where("fee_id = ?", feeID).Take(&fee).Error; err != nil {
		return notFoundOr(c, ctl, err, "Fee not found")
	}

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if !scope.Allows(fee.FeeStudentID) {
		// tidak bocorkan keberadaan fee milik orang lain
		return helper.JsonError(c, fiber.StatusNotFound, "Fee not found")
	}

	var rows []model.FeeTransactionModel
	if err := ctl.DB.WithContext(ctx).
		Where("fee_transaction_fee_id = ?", feeID).
		Order("fee_transaction_date DESC, fee_transaction_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonList(c, "Transactions fetched", dto.ToTransactionResponses(rows), nil)
}

// GET /api/fees/calendar?year=&search=
func (ctl *FeeController) FeeCalendar(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	year := c.QueryInt("year", time.Now().In(ctl.Loc).Year())
	if year < 2000 || year > 2100 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid year")
	}

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	search := ""
	if actor.Is(constants.RoleAdmin) {
		search = strings.TrimSpace(c.Query("search"))
	}

	roster, err := studentRepo.ListRoster(ctx, ctl.DB, scope, search)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	rates, err := ctl.monthlyRates(c, roster)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ids := make([]uuid.UUID, 0, len(roster))
	students := make([]service.CalendarStudent, 0, len(roster))
	for _, r := range roster {
		ids = append(ids, r.StudentID)
		students = append(students, service.CalendarStudent{
			StudentID:   r.StudentID,
			FullName:    r.UserFullName,
			AdmissionNo: r.StudentAdmissionNo,
			MonthlyRate: rates[r.StudentID],
		})
	}

	var fees []model.FeeModel
	if len(ids) > 0 {
		if err := ctl.DB.WithContext(ctx).
			Where("fee_year = ? AND fee_student_id IN ?", year, ids).
			Find(&fees).Error; err != nil {
			return helper.FromServiceError(c, ctl.Log, err)
		}
	}

	return helper.JsonOK(c, "Fee calendar fetched", fiber.Map{
		"year":     year,
		"students": service.BuildFeeCalendar(students, fees),
	})
}

// monthlyRates resolves each roster entry's rate: personal rate, then the
// student's active structure, then the default structure.
func (ctl *FeeController) monthlyRates(c *fiber.Ctx, roster []studentRepo.Roster) (map[uuid.UUID]decimal.Decimal, error) {
	var structures []model.FeeStructureModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("fee_structure_is_active = ?", true).
		Find(&structures).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]decimal.Decimal, len(structures))
	fallback := decimal.Zero
	for _, s := range structures {
		byID[s.FeeStructureID] = s.FeeStructureMonthlyAmount
		if s.FeeStructureIsDefault {
			fallback = s.FeeStructureMonthlyAmount
		}
	}

	out := make(map[uuid.UUID]decimal.Decimal, len(roster))
	for _, r := range roster {
		switch {
		case r.StudentMonthlyFee != nil && r.StudentMonthlyFee.IsPositive():
			out[r.StudentID] = *r.StudentMonthlyFee
		case r.StudentStructureID != nil:
			if amt, ok := byID[*r.StudentStructureID]; ok {
				out[r.StudentID] = amt
				continue
			}
			out[r.StudentID] = fallback
		default:
			out[r.StudentID] = fallback
		}
	}
	return out, nil
}

// GET /api/fees/stats?month=&year=
func (ctl *FeeController) FeeStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	now := time.Now().In(ctl.Loc)

	month := c.QueryInt("month", int(now.Month()))
	year := c.QueryInt("year", now.Year())
	if month < 1 || month > 12 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid month")
	}

	total, err := studentRepo.CountActive(ctx, ctl.DB)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var fees []model.FeeModel
	if err := ctl.DB.WithContext(ctx).
		Select("fee_id", "fee_status", "fee_expected_amount", "fee_paid_amount").
		Where("fee_month = ? AND fee_year = ?", month, year).
		Find(&fees).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	return helper.JsonOK(c, "Fee stats for "+strconv.Itoa(month)+"/"+strconv.Itoa(year), service.BuildFeeStats(month, year, total, fees))
}
