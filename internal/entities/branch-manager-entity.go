package entities

import "time"

// Nested value groups stored as JSONB documents alongside the
// denormalized scalar columns.

type PersonalInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
}

// ContactInfo never carries the password; the plaintext lives only in the
// create/update DTOs on the way to the hasher.
type ContactInfo struct {
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type AddressInfo struct {
	Address string `json:"address,omitempty"`
	Area    string `json:"area,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

type ProfessionalInfo struct {
	Designation            string   `json:"designation"`
	EducationQualification string   `json:"education_qualification,omitempty"`
	ProfessionalExperience string   `json:"professional_experience,omitempty"`
	Certifications         []string `json:"certifications,omitempty"`
}

// BranchAssignment is a snapshot of the referenced branch, refreshed
// whenever the manager record is written with a branch id.
type BranchAssignment struct {
	BranchID       string `json:"branch_id"`
	BranchName     string `json:"branch_name"`
	BranchLocation string `json:"branch_location"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type BranchManager struct {
	ID string

	PersonalInfo     PersonalInfo
	ContactInfo      ContactInfo
	AddressInfo      *AddressInfo
	ProfessionalInfo ProfessionalInfo
	BranchAssignment *BranchAssignment
	EmergencyContact *EmergencyContact

	// Derived columns; always recomputed from the nested groups on write.
	Email     string
	Phone     string
	FirstName string
	LastName  string
	FullName  string

	PasswordHash string
	IsActive     bool
	Notes        *string

	ResetToken       *string
	ResetTokenExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
