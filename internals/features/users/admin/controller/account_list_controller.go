package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/dto"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

const userListColumns = "users.*, students.student_id, students.student_admission_no, students.student_room, students.student_assigned_teacher_id"

// GET /api/users?role=&is_locked=&search=&page=&per_page=
func (ctl *AccountController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).
		Table("users").
		Joins("LEFT JOIN students ON students.student_user_id = users.user_id")

	if role := strings.ToLower(strings.TrimSpace(c.Query("role"))); role != "" {
		q = q.Where("users.user_role = ?", role)
	}
	if raw := strings.TrimSpace(c.Query("is_locked")); raw != "" {
		q = q.Where("users.user_is_locked = ?", strings.EqualFold(raw, "true"))
	}
	if s := strings.TrimSpace(c.Query("search")); s != "" {
		like := "%" + s + "%"
		q = q.Where("(users.user_full_name ILIKE ? OR users.user_email ILIKE ? OR students.student_admission_no ILIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows := []dto.UserListItem{}
	if err := q.
		Select(userListColumns).
		Order("users.user_full_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "Users fetched", rows, &pg)
}

// GET /api/users/:id
func (ctl *AccountController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var rows []dto.UserListItem
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("users").
		Select(userListColumns).
		Joins("LEFT JOIN students ON students.student_user_id = users.user_id").
		Where("users.user_id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "User fetched", rows[0])
}

// GET /api/users/my-students  (teacher: murid binaan saja)
func (ctl *AccountController) MyStudents(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	roster, err := studentRepo.ListRoster(ctx, ctl.DB, scope, strings.TrimSpace(c.Query("search")))
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	out := make([]dto.RosterItem, 0, len(roster))
	for _, r := range roster {
		out = append(out, dto.RosterItem{
			StudentID:   r.StudentID,
			UserID:      r.StudentUserID,
			FullName:    r.UserFullName,
			AdmissionNo: r.StudentAdmissionNo,
			MonthlyFee:  r.StudentMonthlyFee,
		})
	}
	return helper.JsonList(c, "Students fetched", out, nil)
}
