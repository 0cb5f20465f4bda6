package service

import (
	"time"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

type DaySummary struct {
	Total   int `json:"total"`
	Walks   int `json:"walks"`
	Exits   int `json:"exits"`
	Returns int `json:"returns"`
}

type RoutineCalendar struct {
	Year       int                                   `json:"year"`
	Month      int                                   `json:"month"`
	Activities map[string][]model.RoutineWithStudent `json:"activities"`
	Summary    map[string]DaySummary                 `json:"summary"`
}

// BuildRoutineCalendar groups routines by their hostel-local request date
// (YYYY-MM-DD), keeping input order inside each day.
func BuildRoutineCalendar(year int, month time.Month, rows []model.RoutineWithStudent, loc *time.Location) RoutineCalendar {
	cal := RoutineCalendar{
		Year:       year,
		Month:      int(month),
		Activities: map[string][]model.RoutineWithStudent{},
		Summary:    map[string]DaySummary{},
	}
	for _, r := range rows {
		day := dbtime.DateKey(r.RoutineRequestAt, loc)
		cal.Activities[day] = append(cal.Activities[day], r)

		s := cal.Summary[day]
		s.Total++
		switch r.RoutineType {
		case model.RoutineWalk:
			s.Walks++
		case model.RoutineExit:
			s.Exits++
		case model.RoutineReturn:
			s.Returns++
		}
		cal.Summary[day] = s
	}
	return cal
}

// Stats is the routine dashboard summary.
type Stats struct {
	PendingCount int64 `json:"pending_count"`
	CurrentlyOut int64 `json:"currently_out"`
	LateReturns  int64 `json:"late_returns"`
}
