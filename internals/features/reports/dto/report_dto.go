package dto

import (
	"github.com/nothotgamer/hostelixpro/internals/features/reports/service"
)

type CreateReportRequest struct {
	Walk     bool `json:"walk"`
	Exercise bool `json:"exercise"`
}

func (r CreateReportRequest) ToInput() service.CreateReportInput {
	return service.CreateReportInput{Walk: r.Walk, Exercise: r.Exercise}
}

type ApproveReportRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// RejectReportRequest: notes wajib diisi.
type RejectReportRequest struct {
	Notes string `json:"notes" validate:"required,max=1000"`
}
