package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	routineModel "github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/service"
)

// StudentProfileRow is a student joined with its account and the assigned
// teacher's name.
type StudentProfileRow struct {
	StudentID           uuid.UUID `gorm:"column:student_id"`
	StudentUserID       uuid.UUID `gorm:"column:student_user_id"`
	UserFullName        string    `gorm:"column:user_full_name"`
	UserEmail           string    `gorm:"column:user_email"`
	StudentRoom         *string   `gorm:"column:student_room"`
	StudentAdmissionNo  string    `gorm:"column:student_admission_no"`
	AssignedTeacherName *string   `gorm:"column:assigned_teacher_name"`
}

func ListStudentProfiles(ctx context.Context, db *gorm.DB, scope studentRepo.Scope) ([]StudentProfileRow, error) {
	q := db.WithContext(ctx).
		Table("students").
		Select("students.student_id, students.student_user_id, users.user_full_name, users.user_email, " +
			"students.student_room, students.student_admission_no, teachers.user_full_name AS assigned_teacher_name").
		Joins("JOIN users ON users.user_id = students.student_user_id").
		Joins("LEFT JOIN users AS teachers ON teachers.user_id = students.student_assigned_teacher_id")
	q = scope.Apply(q, "students.student_id")

	rows := []StudentProfileRow{}
	if err := q.Order("users.user_full_name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type typeCount struct {
	StudentID uuid.UUID               `gorm:"column:routine_student_id"`
	Type      routineModel.RoutineType `gorm:"column:routine_type"`
	N         int64                   `gorm:"column:n"`
}

// CountActivities counts routines per student and type requested in
// [fromMs, toMs).
func CountActivities(ctx context.Context, db *gorm.DB, studentIDs []uuid.UUID, fromMs, toMs int64) (map[uuid.UUID]service.Activities, error) {
	out := map[uuid.UUID]service.Activities{}
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []typeCount
	if err := db.WithContext(ctx).
		Model(&routineModel.RoutineModel{}).
		Select("routine_student_id, routine_type, COUNT(*) AS n").
		Where("routine_student_id IN ? AND routine_request_time >= ? AND routine_request_time < ?", studentIDs, fromMs, toMs).
		Group("routine_student_id, routine_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		a := out[r.StudentID]
		a.Add(r.Type, r.N)
		out[r.StudentID] = a
	}
	return out, nil
}
