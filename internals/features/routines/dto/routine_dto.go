package dto

import (
	"encoding/json"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/service"
)

type CreateRoutineRequest struct {
	Type    string          `json:"type" validate:"required,oneof=walk exit"`
	Payload json.RawMessage `json:"payload"`
}

func (r CreateRoutineRequest) ToInput() service.CreateRoutineInput {
	return service.CreateRoutineInput{
		Type:    model.RoutineType(r.Type),
		Payload: []byte(r.Payload),
	}
}

// ReviewRequest is the optional body of approve and confirm-return.
type ReviewRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type RejectRoutineRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}
