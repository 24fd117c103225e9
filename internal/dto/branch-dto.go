package dto

import (
	"time"

	"academy-admin/internal/entities"
)

type BranchAddressDTO struct {
	Line1   string `json:"line1" validate:"omitempty,max=200"`
	Area    string `json:"area" validate:"omitempty,max=100"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	ZipCode string `json:"zip_code" validate:"omitempty,max=20"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

type CreateBranchDTO struct {
	Name      string           `json:"name" validate:"required,max=150"`
	Address   BranchAddressDTO `json:"address"`
	ManagerID string           `json:"manager_id" validate:"omitempty,uuid4"`
}

type UpdateBranchDTO struct {
	Name      *string           `json:"name" validate:"omitempty,max=150"`
	Address   *BranchAddressDTO `json:"address"`
	ManagerID *string           `json:"manager_id" validate:"omitempty,uuid4"`
}

type BranchDTO struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Address   entities.BranchAddress `json:"address"`
	ManagerID string                 `json:"manager_id,omitempty"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func NewBranchDTO(b *entities.Branch) BranchDTO {
	out := BranchDTO{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.ManagerID != nil {
		out.ManagerID = *b.ManagerID
	}
	return out
}
