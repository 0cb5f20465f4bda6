// Package service assembles the role dashboards from raw counts and rows.
// Nothing here touches the database.
package service

import (
	"fmt"

	"github.com/google/uuid"

	reportModel "github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	routineModel "github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
)

// Where a student is right now, from their active routine.
const (
	StatusInHostel    = "in_hostel"
	StatusPendingExit = "pending_exit"
	StatusOnWalk      = "on_walk"
	StatusOnExit      = "on_exit"
)

// PendingAlertAfterMs: request yang menunggu lebih dari 30 menit diberi alert.
const PendingAlertAfterMs = int64(30 * 60 * 1000)

// CurrentStatus maps a student's active routine (nil when none) to a
// presence label.
func CurrentStatus(active *routineModel.RoutineModel) string {
	switch {
	case active == nil:
		return StatusInHostel
	case active.RoutineStatus == routineModel.RoutinePendingManager:
		return StatusPendingExit
	case active.RoutineType == routineModel.RoutineWalk:
		return StatusOnWalk
	default:
		return StatusOnExit
	}
}

type StudentDay struct {
	StudentID      uuid.UUID `json:"student_id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	AdmissionNo    string    `json:"admission_no"`
	WakeReported   bool      `json:"wake_reported"`
	WakeTime       *int64    `json:"wake_time,omitempty"`
	LateMinutes    int       `json:"late_minutes"`
	CurrentStatus  string    `json:"current_status"`
	PendingReports int64     `json:"pending_reports"`
	PendingFees    int64     `json:"pending_fees"`
}

type DailySummary struct {
	Total         int `json:"total"`
	ReportedToday int `json:"reported_today"`
	OnLeave       int `json:"on_leave"`
	PendingAction int `json:"pending_action"`
}

// DailyInput is everything the teacher's daily sheet needs, keyed by
// student id.
type DailyInput struct {
	Roster         []studentRepo.Roster
	TodayReports   map[uuid.UUID]reportModel.ReportModel
	ActiveRoutines map[uuid.UUID]routineModel.RoutineModel
	PendingReports map[uuid.UUID]int64
	PendingFees    map[uuid.UUID]int64
}

// StudentsDaily builds one row per roster student plus the totals.
func StudentsDaily(in DailyInput) ([]StudentDay, DailySummary) {
	rows := make([]StudentDay, 0, len(in.Roster))
	sum := DailySummary{Total: len(in.Roster)}

	for _, r := range in.Roster {
		day := StudentDay{
			StudentID:      r.StudentID,
			UserID:         r.StudentUserID,
			Name:           r.UserFullName,
			AdmissionNo:    r.StudentAdmissionNo,
			CurrentStatus:  StatusInHostel,
			PendingReports: in.PendingReports[r.StudentID],
			PendingFees:    in.PendingFees[r.StudentID],
		}
		if rep, ok := in.TodayReports[r.StudentID]; ok {
			wake := rep.ReportWakeTime
			day.WakeReported = true
			day.WakeTime = &wake
			day.LateMinutes = rep.ReportLateMinutes
			sum.ReportedToday++
		}
		if rt, ok := in.ActiveRoutines[r.StudentID]; ok {
			day.CurrentStatus = CurrentStatus(&rt)
		}
		if day.CurrentStatus == StatusOnExit {
			sum.OnLeave++
		}
		if day.PendingReports > 0 {
			sum.PendingAction++
		}
		rows = append(rows, day)
	}
	return rows, sum
}

// AttendanceRate is the rounded share of students who reported, 0 for an
// empty roster.
func AttendanceRate(reported, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return (reported*100 + total/2) / total
}

type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Alerts for the routine manager: overdue returns first, then requests
// waiting too long.
func Alerts(overdue, stalePending int64) []Alert {
	out := []Alert{}
	if overdue > 0 {
		out = append(out, Alert{Type: "danger", Message: fmt.Sprintf("%d student(s) overdue for return", overdue)})
	}
	if stalePending > 0 {
		out = append(out, Alert{Type: "warning", Message: fmt.Sprintf("%d request(s) pending for over 30 minutes", stalePending)})
	}
	return out
}
