package model

// RoutineWithStudent is a routine row joined with the student's name, as
// returned by the listing endpoints.
type RoutineWithStudent struct {
	RoutineModel `gorm:"embedded"`

	StudentName        string `json:"student_name" gorm:"column:student_name"`
	StudentAdmissionNo string `json:"student_admission_no" gorm:"column:student_admission_no"`
}
