package service

type AdminStats struct {
	TotalUsers          int64 `json:"total_users"`
	LockedUsers         int64 `json:"locked_users"`
	ActiveStudents      int64 `json:"active_students"`
	PendingReports      int64 `json:"pending_reports"`
	PendingTransactions int64 `json:"pending_transactions"`
	PendingRoutines     int64 `json:"pending_routines"`
}

type TeacherStats struct {
	TotalStudents  int64 `json:"total_students"`
	PendingReports int64 `json:"pending_reports"`
	TodayReported  int64 `json:"today_reported"`
	AttendanceRate int64 `json:"attendance_rate"`
}

type ManagerStats struct {
	TotalStudents   int64 `json:"total_students"`
	InHostel        int64 `json:"in_hostel"`
	OnWalk          int64 `json:"on_walk"`
	OnExit          int64 `json:"on_exit"`
	PendingRequests int64 `json:"pending_requests"`
	LateReturns     int64 `json:"late_returns"`
}

// NewManagerStats derives in_hostel; it never goes below zero even when
// locked students still have routines open.
func NewManagerStats(total, onWalk, onExit, pending, late int64) ManagerStats {
	in := total - onWalk - onExit
	if in < 0 {
		in = 0
	}
	return ManagerStats{
		TotalStudents:   total,
		InHostel:        in,
		OnWalk:          onWalk,
		OnExit:          onExit,
		PendingRequests: pending,
		LateReturns:     late,
	}
}
