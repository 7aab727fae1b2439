package usecase

import "github.com/xavierca1/prefab-leads/internal/entity"

// CaptureLeadInput is what a "Get Offer" form posts.
type CaptureLeadInput struct {
	FirstName      string               `json:"firstName" validate:"required,max=100"`
	LastName       string               `json:"lastName" validate:"required,max=100"`
	Email          string               `json:"email" validate:"required,email"`
	Phone          string               `json:"phone" validate:"required,max=40"`
	Message        string               `json:"message" validate:"max=5000"`
	ReserveSlot    bool                 `json:"reserveSlot"`
	PreferredMonth string               `json:"preferredMonth" validate:"omitempty,datetime=2006-01"`
	Model          string               `json:"model" validate:"max=100"`
	Configuration  entity.Configuration `json:"configuration"`
	TotalPrice     float64              `json:"totalPrice" validate:"gte=0"`
}

type CaptureLeadOutput struct {
	ID        string        `json:"id"`
	Status    entity.Status `json:"status"`
	CreatedAt string        `json:"createdAt"`
	Msg       string        `json:"msg"`
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}

type AddNoteInput struct {
	Note string `json:"note"`
}
