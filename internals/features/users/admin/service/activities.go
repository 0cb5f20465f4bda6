package service

import (
	routineModel "github.com/nothotgamer/hostelixpro/internals/features/routines/model"
)

// Activities counts a student's routines in a period, by type.
type Activities struct {
	Walks   int64 `json:"walks"`
	Exits   int64 `json:"exits"`
	Returns int64 `json:"returns"`
}

func (a *Activities) Add(t routineModel.RoutineType, n int64) {
	switch t {
	case routineModel.RoutineWalk:
		a.Walks += n
	case routineModel.RoutineExit:
		a.Exits += n
	case routineModel.RoutineReturn:
		a.Returns += n
	}
}
