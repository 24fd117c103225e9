package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"academy-admin/internal/entities"
)

type PersonalInfoDTO struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

type ContactInfoDTO struct {
	Email       string `json:"email" validate:"required,email"`
	CountryCode string `json:"country_code" validate:"omitempty,max=5"`
	Phone       string `json:"phone" validate:"required,min=5,max=20"`
	// Accepted on create only; generated when absent, hashed, never stored.
	Password string `json:"password" validate:"omitempty,min=8"`
}

type AddressInfoDTO struct {
	Address string `json:"address" validate:"omitempty,max=200"`
	Area    string `json:"area" validate:"omitempty,max=100"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	ZipCode string `json:"zip_code" validate:"omitempty,max=20"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

type ProfessionalInfoDTO struct {
	Designation            string   `json:"designation" validate:"omitempty,max=100"`
	EducationQualification string   `json:"education_qualification" validate:"omitempty,max=200"`
	ProfessionalExperience string   `json:"professional_experience" validate:"omitempty,max=200"`
	Certifications         []string `json:"certifications" validate:"omitempty,dive,max=200"`
}

type EmergencyContactDTO struct {
	Name         string `json:"name" validate:"omitempty,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Relationship string `json:"relationship" validate:"omitempty,max=50"`
}

type CreateBranchManagerDTO struct {
	PersonalInfo     PersonalInfoDTO      `json:"personal_info" validate:"required"`
	ContactInfo      ContactInfoDTO       `json:"contact_info" validate:"required"`
	AddressInfo      *AddressInfoDTO      `json:"address_info"`
	ProfessionalInfo ProfessionalInfoDTO  `json:"professional_info"`
	BranchID         string               `json:"branch_id" validate:"omitempty,uuid4"`
	EmergencyContact *EmergencyContactDTO `json:"emergency_contact"`
	Notes            string               `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateBranchManagerDTO is a partial merge: a present nested group
// replaces that group entirely; absent groups are left untouched.
// Scalars use null types so "absent" and "set to null" stay distinct.
type UpdateBranchManagerDTO struct {
	PersonalInfo     *PersonalInfoDTO     `json:"personal_info"`
	ContactInfo      *ContactInfoDTO      `json:"contact_info"`
	AddressInfo      *AddressInfoDTO      `json:"address_info"`
	ProfessionalInfo *ProfessionalInfoDTO `json:"professional_info"`
	BranchID         null.String          `json:"branch_id"`
	EmergencyContact *EmergencyContactDTO `json:"emergency_contact"`
	Password         null.String          `json:"password"`
	IsActive         null.Bool            `json:"is_active"`
	Notes            null.String          `json:"notes"`
}

type UpdateProfileDTO struct {
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,min=5,max=20"`
}

type BranchManagerLoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// BranchManagerDTO is the response shape. Password material and reset
// token fields are never part of it.
type BranchManagerDTO struct {
	ID               string                     `json:"id"`
	PersonalInfo     entities.PersonalInfo      `json:"personal_info"`
	ContactInfo      entities.ContactInfo       `json:"contact_info"`
	AddressInfo      *entities.AddressInfo      `json:"address_info,omitempty"`
	ProfessionalInfo entities.ProfessionalInfo  `json:"professional_info"`
	BranchAssignment *entities.BranchAssignment `json:"branch_assignment,omitempty"`
	EmergencyContact *entities.EmergencyContact `json:"emergency_contact,omitempty"`
	Email            string                     `json:"email"`
	Phone            string                     `json:"phone"`
	FullName         string                     `json:"full_name"`
	IsActive         bool                       `json:"is_active"`
	Notes            string                     `json:"notes,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

func NewBranchManagerDTO(m *entities.BranchManager) BranchManagerDTO {
	out := BranchManagerDTO{
		ID:               m.ID,
		PersonalInfo:     m.PersonalInfo,
		ContactInfo:      m.ContactInfo,
		AddressInfo:      m.AddressInfo,
		ProfessionalInfo: m.ProfessionalInfo,
		BranchAssignment: m.BranchAssignment,
		EmergencyContact: m.EmergencyContact,
		Email:            m.Email,
		Phone:            m.Phone,
		FullName:         m.FullName,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.Notes != nil {
		out.Notes = *m.Notes
	}
	return out
}

type CreatedBranchManagerDTO struct {
	ID               string                     `json:"id"`
	FullName         string                     `json:"full_name"`
	Email            string                     `json:"email"`
	BranchAssignment *entities.BranchAssignment `json:"branch_assignment"`
}

type BranchManagerLoginResponseDTO struct {
	AccessToken     string           `json:"access_token"`
	TokenType       string           `json:"token_type"`
	ExpiresIn       int64            `json:"expires_in"`
	BranchManager   BranchManagerDTO `json:"branch_manager"`
	ManagedBranches []string         `json:"managed_branches"`
}

type CredentialsSentDTO struct {
	Email string `json:"email"`
}
