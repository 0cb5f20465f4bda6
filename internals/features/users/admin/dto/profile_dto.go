package dto

import (
	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/service"
)

// StudentProfileItem is one row of /users/student-profiles. Routine managers
// get the limited view: no account, email, admission number or teacher.
type StudentProfileItem struct {
	StudentID           uuid.UUID          `json:"student_id"`
	UserID              *uuid.UUID         `json:"user_id,omitempty"`
	FullName            string             `json:"full_name"`
	Email               string             `json:"email,omitempty"`
	Room                *string            `json:"room"`
	AdmissionNo         string             `json:"admission_no,omitempty"`
	AssignedTeacherName *string            `json:"assigned_teacher_name,omitempty"`
	Activities          service.Activities `json:"activities"`
}

func ToStudentProfiles(rows []repository.StudentProfileRow, acts map[uuid.UUID]service.Activities, limited bool) []StudentProfileItem {
	out := make([]StudentProfileItem, 0, len(rows))
	for _, r := range rows {
		item := StudentProfileItem{
			StudentID:  r.StudentID,
			FullName:   r.UserFullName,
			Room:       r.StudentRoom,
			Activities: acts[r.StudentID],
		}
		if !limited {
			uid := r.StudentUserID
			item.UserID = &uid
			item.Email = r.UserEmail
			item.AdmissionNo = r.StudentAdmissionNo
			item.AssignedTeacherName = r.AssignedTeacherName
		}
		out = append(out, item)
	}
	return out
}
