package constants

import "fmt"

const (
	RoleAdmin          = "admin"
	RoleTeacher        = "teacher"
	RoleRoutineManager = "routine_manager"
	RoleStudent        = "student"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess   = "Only admins can access %s."
	ErrOnlyStudentsCanAccess = "Only students can access %s."
	ErrOnlyStaffCanAccess    = "Only teachers or admins can access %s."
	ErrOnlyManagersCanAccess = "Only routine managers or admins can access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorManager(feature string) string {
	return fmt.Sprintf(ErrOnlyManagersCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleTeacher,
		RoleRoutineManager,
		RoleStudent,
	}

	StaffRoles = []string{
		RoleAdmin,
		RoleTeacher,
		RoleRoutineManager,
	}

	// Report approvers.
	TeacherAndAbove = []string{
		RoleTeacher,
		RoleAdmin,
	}

	RoutineManagers = []string{
		RoleRoutineManager,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	StudentOnly = []string{
		RoleStudent,
	}
)

// HasRole reports whether role is one of allowed.
func HasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
