package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/entities"
	"academy-admin/internal/repositories"
	"academy-admin/pkg/config"
	"academy-admin/pkg/email"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

const (
	defaultCountryCode = "+91"
	defaultCountry     = "India"
	defaultDesignation = "Branch Manager"
)

type BranchManagerServiceInterface interface {
	CreateBranchManager(ctx context.Context, payload dto.CreateBranchManagerDTO) (*dto.CreatedBranchManagerDTO, error)
	GetBranchManagers(ctx context.Context, params utils.ListParams) ([]dto.BranchManagerDTO, uint64, error)
	GetBranchManager(ctx context.Context, id string) (*dto.BranchManagerDTO, error)
	UpdateBranchManager(ctx context.Context, id string, payload dto.UpdateBranchManagerDTO) (*dto.BranchManagerDTO, error)
	DeleteBranchManager(ctx context.Context, id string) error
	UpdateOwnProfile(ctx context.Context, managerID string, payload dto.UpdateProfileDTO) (*dto.BranchManagerDTO, error)
	SendCredentialsEmail(ctx context.Context, id string) (*dto.CredentialsSentDTO, error)
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error
}

type BranchManagerService struct {
	managerRepo repositories.BranchManagerRepositoryInterface
	branchRepo  repositories.BranchRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	mailer      email.Mailer
	cfg         *config.Config
	logger      *zap.Logger
}

func NewBranchManagerService(
	managerRepo repositories.BranchManagerRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	mailer email.Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) BranchManagerServiceInterface {
	return &BranchManagerService{
		managerRepo: managerRepo,
		branchRepo:  branchRepo,
		cacheRepo:   cacheRepo,
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger,
	}
}

func deriveFullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func fullPhone(countryCode, phone string) string {
	if countryCode == "" {
		countryCode = defaultCountryCode
	}
	return countryCode + phone
}

// snapshotBranch refreshes the denormalized assignment from the branch
// record. A dangling branch id yields no assignment.
func (s *BranchManagerService) snapshotBranch(ctx context.Context, branchID string) *entities.BranchAssignment {
	branch, err := s.branchRepo.FindBranch(ctx, branchID)
	if err != nil {
		s.logger.Warn("branch for assignment not found", zap.String("branchID", branchID), zap.Error(err))
		return nil
	}
	return &entities.BranchAssignment{
		BranchID:       branch.ID,
		BranchName:     branch.Name,
		BranchLocation: branch.Location(),
	}
}

func (s *BranchManagerService) CreateBranchManager(ctx context.Context, payload dto.CreateBranchManagerDTO) (*dto.CreatedBranchManagerDTO, error) {
	phone := fullPhone(payload.ContactInfo.CountryCode, payload.ContactInfo.Phone)

	taken, err := s.managerRepo.ExistsWithEmailOrPhone(ctx, payload.ContactInfo.Email, phone, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewBadRequestError("Branch manager with this email or phone already exists")
	}

	password := payload.ContactInfo.Password
	if password == "" {
		password, err = utils.GeneratePassword(12)
		if err != nil {
			return nil, err
		}
	}
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	countryCode := payload.ContactInfo.CountryCode
	if countryCode == "" {
		countryCode = defaultCountryCode
	}
	designation := payload.ProfessionalInfo.Designation
	if designation == "" {
		designation = defaultDesignation
	}

	manager := &entities.BranchManager{
		ID: uuid.New().String(),
		PersonalInfo: entities.PersonalInfo{
			FirstName:   payload.PersonalInfo.FirstName,
			LastName:    payload.PersonalInfo.LastName,
			Gender:      payload.PersonalInfo.Gender,
			DateOfBirth: payload.PersonalInfo.DateOfBirth,
		},
		ContactInfo: entities.ContactInfo{
			Email:       payload.ContactInfo.Email,
			CountryCode: countryCode,
			Phone:       payload.ContactInfo.Phone,
		},
		ProfessionalInfo: entities.ProfessionalInfo{
			Designation:            designation,
			EducationQualification: payload.ProfessionalInfo.EducationQualification,
			ProfessionalExperience: payload.ProfessionalInfo.ProfessionalExperience,
			Certifications:         payload.ProfessionalInfo.Certifications,
		},
		Email:        payload.ContactInfo.Email,
		Phone:        phone,
		FirstName:    payload.PersonalInfo.FirstName,
		LastName:     payload.PersonalInfo.LastName,
		FullName:     deriveFullName(payload.PersonalInfo.FirstName, payload.PersonalInfo.LastName),
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if payload.AddressInfo != nil {
		country := payload.AddressInfo.Country
		if country == "" {
			country = defaultCountry
		}
		manager.AddressInfo = &entities.AddressInfo{
			Address: payload.AddressInfo.Address,
			Area:    payload.AddressInfo.Area,
			City:    payload.AddressInfo.City,
			State:   payload.AddressInfo.State,
			ZipCode: payload.AddressInfo.ZipCode,
			Country: country,
		}
	}
	if payload.EmergencyContact != nil {
		manager.EmergencyContact = &entities.EmergencyContact{
			Name:         payload.EmergencyContact.Name,
			Phone:        payload.EmergencyContact.Phone,
			Relationship: payload.EmergencyContact.Relationship,
		}
	}
	if payload.Notes != "" {
		manager.Notes = &payload.Notes
	}
	if payload.BranchID != "" {
		manager.BranchAssignment = s.snapshotBranch(ctx, payload.BranchID)
	}

	if err := s.managerRepo.Create(ctx, manager); err != nil {
		return nil, err
	}

	s.logger.Info("branch manager created",
		zap.String("id", manager.ID),
		zap.String("email", manager.Email),
	)

	return &dto.CreatedBranchManagerDTO{
		ID:               manager.ID,
		FullName:         manager.FullName,
		Email:            manager.Email,
		BranchAssignment: manager.BranchAssignment,
	}, nil
}

func (s *BranchManagerService) GetBranchManagers(ctx context.Context, params utils.ListParams) ([]dto.BranchManagerDTO, uint64, error) {
	managers, total, err := s.managerRepo.GetBranchManagers(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.BranchManagerDTO, 0, len(managers))
	for i := range managers {
		out = append(out, dto.NewBranchManagerDTO(&managers[i]))
	}
	return out, total, nil
}

func (s *BranchManagerService) GetBranchManager(ctx context.Context, id string) (*dto.BranchManagerDTO, error) {
	manager, err := s.managerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewBranchManagerDTO(manager)
	return &res, nil
}

// UpdateBranchManager merges the provided groups into the stored record.
// A present group replaces that group entirely; derived columns are
// recomputed from whatever groups end up on the record.
func (s *BranchManagerService) UpdateBranchManager(ctx context.Context, id string, payload dto.UpdateBranchManagerDTO) (*dto.BranchManagerDTO, error) {
	manager, err := s.managerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.PersonalInfo != nil {
		manager.PersonalInfo = entities.PersonalInfo{
			FirstName:   payload.PersonalInfo.FirstName,
			LastName:    payload.PersonalInfo.LastName,
			Gender:      payload.PersonalInfo.Gender,
			DateOfBirth: payload.PersonalInfo.DateOfBirth,
		}
		manager.FirstName = payload.PersonalInfo.FirstName
		manager.LastName = payload.PersonalInfo.LastName
		manager.FullName = deriveFullName(payload.PersonalInfo.FirstName, payload.PersonalInfo.LastName)
	}

	if payload.ContactInfo != nil {
		countryCode := payload.ContactInfo.CountryCode
		if countryCode == "" {
			countryCode = defaultCountryCode
		}
		newPhone := fullPhone(countryCode, payload.ContactInfo.Phone)

		if payload.ContactInfo.Email != manager.Email || newPhone != manager.Phone {
			conflict, err := s.managerRepo.ExistsWithEmailOrPhone(ctx, payload.ContactInfo.Email, newPhone, id)
			if err != nil {
				return nil, err
			}
			if conflict {
				return nil, apperrors.NewBadRequestError("Email or phone already exists for another branch manager")
			}
		}
		manager.ContactInfo = entities.ContactInfo{
			Email:       payload.ContactInfo.Email,
			CountryCode: countryCode,
			Phone:       payload.ContactInfo.Phone,
		}
		manager.Email = payload.ContactInfo.Email
		manager.Phone = newPhone
	}

	if payload.Password.Valid && payload.Password.String != "" {
		hash, err := utils.HashPassword(payload.Password.String)
		if err != nil {
			return nil, err
		}
		manager.PasswordHash = hash
	}

	if payload.AddressInfo != nil {
		manager.AddressInfo = &entities.AddressInfo{
			Address: payload.AddressInfo.Address,
			Area:    payload.AddressInfo.Area,
			City:    payload.AddressInfo.City,
			State:   payload.AddressInfo.State,
			ZipCode: payload.AddressInfo.ZipCode,
			Country: payload.AddressInfo.Country,
		}
	}

	if payload.ProfessionalInfo != nil {
		manager.ProfessionalInfo = entities.ProfessionalInfo{
			Designation:            payload.ProfessionalInfo.Designation,
			EducationQualification: payload.ProfessionalInfo.EducationQualification,
			ProfessionalExperience: payload.ProfessionalInfo.ProfessionalExperience,
			Certifications:         payload.ProfessionalInfo.Certifications,
		}
	}

	if payload.EmergencyContact != nil {
		manager.EmergencyContact = &entities.EmergencyContact{
			Name:         payload.EmergencyContact.Name,
			Phone:        payload.EmergencyContact.Phone,
			Relationship: payload.EmergencyContact.Relationship,
		}
	}

	if payload.BranchID.Valid {
		if payload.BranchID.String == "" {
			manager.BranchAssignment = nil
		} else {
			manager.BranchAssignment = s.snapshotBranch(ctx, payload.BranchID.String)
		}
	}

	if payload.IsActive.Valid {
		// Reactivation brings the record back under the partial unique
		// indexes, so the email and phone must be re-checked against
		// the active set.
		if payload.IsActive.Bool && !manager.IsActive {
			taken, err := s.managerRepo.ExistsWithEmailOrPhone(ctx, manager.Email, manager.Phone, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.NewBadRequestError("Email or phone already exists for another branch manager")
			}
		}
		manager.IsActive = payload.IsActive.Bool
	}
	if payload.Notes.Valid {
		if payload.Notes.String == "" {
			manager.Notes = nil
		} else {
			notes := payload.Notes.String
			manager.Notes = &notes
		}
	}

	if err := s.managerRepo.Update(ctx, manager); err != nil {
		return nil, err
	}

	res := dto.NewBranchManagerDTO(manager)
	return &res, nil
}

func (s *BranchManagerService) DeleteBranchManager(ctx context.Context, id string) error {
	manager, err := s.managerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	assigned, err := s.branchRepo.FindByManager(ctx, manager.ID)
	if err != nil {
		return err
	}
	if len(assigned) > 0 {
		names := make([]string, 0, len(assigned))
		for _, b := range assigned {
			names = append(names, b.Name)
		}
		return apperrors.NewBadRequestError(fmt.Sprintf(
			"Cannot delete branch manager. They are currently assigned to %d branch(es): %s. Please reassign these branches to another manager first.",
			len(assigned), strings.Join(names, ", "),
		))
	}

	if err := s.managerRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("branch manager deactivated",
		zap.String("id", id),
		zap.String("email", manager.Email),
	)
	return nil
}

// UpdateOwnProfile handles the manager-facing profile form: flat
// full_name/email/phone fields, with full_name split back into first and
// last names.
func (s *BranchManagerService) UpdateOwnProfile(ctx context.Context, managerID string, payload dto.UpdateProfileDTO) (*dto.BranchManagerDTO, error) {
	manager, err := s.managerRepo.FindByID(ctx, managerID)
	if err != nil {
		return nil, err
	}

	if payload.FullName != "" {
		manager.FullName = strings.TrimSpace(payload.FullName)
		first, last, _ := strings.Cut(manager.FullName, " ")
		manager.FirstName = first
		manager.LastName = last
		manager.PersonalInfo.FirstName = first
		manager.PersonalInfo.LastName = last
	}

	if payload.Email != "" && payload.Email != manager.Email {
		conflict, err := s.managerRepo.EmailTakenByOther(ctx, payload.Email, managerID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperrors.NewBadRequestError("Email already exists for another branch manager")
		}
		manager.Email = payload.Email
		manager.ContactInfo.Email = payload.Email
	}

	if payload.Phone != "" {
		manager.ContactInfo.Phone = payload.Phone
		manager.Phone = fullPhone(manager.ContactInfo.CountryCode, payload.Phone)
	}

	if err := s.managerRepo.Update(ctx, manager); err != nil {
		return nil, err
	}

	res := dto.NewBranchManagerDTO(manager)
	return &res, nil
}

func (s *BranchManagerService) SendCredentialsEmail(ctx context.Context, id string) (*dto.CredentialsSentDTO, error) {
	manager, err := s.managerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if manager.Email == "" {
		return nil, apperrors.NewBadRequestError("Branch manager email not found")
	}

	token := uuid.New().String()
	expiry := time.Now().Add(s.cfg.Auth.ResetTokenTTL)
	if err := s.managerRepo.SetResetToken(ctx, id, token, expiry); err != nil {
		return nil, err
	}

	subject := "Your Branch Manager Login Credentials"
	htmlBody, textBody := s.credentialsEmailBody(manager, token)
	if err := s.mailer.Send(ctx, manager.Email, subject, htmlBody, textBody); err != nil {
		s.logger.Error("credentials email failed", zap.String("managerID", id), zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusBadGateway, "Failed to send credentials email", err, nil)
	}

	s.logger.Info("credentials email sent",
		zap.String("managerID", id),
		zap.String("email", manager.Email),
	)
	return &dto.CredentialsSentDTO{Email: manager.Email}, nil
}

func (s *BranchManagerService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordDTO) error {
	// One request per address per minute.
	spamKey := fmt.Sprintf("reset_spam_protect:%s", payload.Email)
	if _, err := s.cacheRepo.Get(ctx, spamKey); err == nil {
		s.logger.Warn("reset requested too frequently", zap.String("email", payload.Email))
		return nil
	}

	manager, err := s.managerRepo.FindByEmail(ctx, payload.Email)
	if err != nil || !manager.IsActive {
		// Do not reveal whether the address exists.
		s.logger.Warn("reset requested for unknown or inactive email")
		return nil
	}

	_ = s.cacheRepo.Set(ctx, spamKey, "active", s.cfg.Auth.ResetRequestGap)

	token := uuid.New().String()
	expiry := time.Now().Add(s.cfg.Auth.ResetTokenTTL)
	if err := s.managerRepo.SetResetToken(ctx, manager.ID, token, expiry); err != nil {
		return err
	}

	subject := "Reset Your Branch Manager Password"
	htmlBody, textBody := s.resetEmailBody(manager, token)
	if err := s.mailer.Send(ctx, manager.Email, subject, htmlBody, textBody); err != nil {
		s.logger.Error("reset email failed", zap.String("managerID", manager.ID), zap.Error(err))
	}
	return nil
}

func (s *BranchManagerService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	manager, err := s.managerRepo.FindByResetToken(ctx, payload.Token)
	if err != nil {
		return apperrors.NewBadRequestError("Invalid or expired reset token")
	}
	if manager.ResetTokenExpiry == nil || manager.ResetTokenExpiry.Before(time.Now()) {
		return apperrors.NewBadRequestError("Invalid or expired reset token")
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	if err := s.managerRepo.ResetPassword(ctx, manager.ID, hash); err != nil {
		return err
	}

	s.logger.Info("branch manager password reset", zap.String("managerID", manager.ID))
	return nil
}

func (s *BranchManagerService) resetLink(token string) string {
	return fmt.Sprintf("%s/branch-manager/reset-password?token=%s", s.cfg.Server.BaseURL, token)
}

func (s *BranchManagerService) credentialsEmailBody(m *entities.BranchManager, token string) (html string, text string) {
	branchInfo := ""
	if m.BranchAssignment != nil && m.BranchAssignment.BranchName != "" {
		branchInfo = "Branch: " + m.BranchAssignment.BranchName
		if m.BranchAssignment.BranchLocation != "" {
			branchInfo += " (" + m.BranchAssignment.BranchLocation + ")"
		}
	}
	link := s.resetLink(token)

	text = fmt.Sprintf(`Dear %s,

Your Branch Manager account has been created.

Account details:
- Email: %s
- Role: Branch Manager
%s

To set up your password, open the link below:
%s

The link expires in 24 hours.

This is an automated message, please do not reply.`,
		m.FullName, m.Email, branchInfo, link)

	html = fmt.Sprintf(`<html><body>
<p>Dear <strong>%s</strong>,</p>
<p>Your Branch Manager account has been created.</p>
<p>Email: %s<br>Role: Branch Manager<br>%s</p>
<p><a href="%s">Set up your password</a> (the link expires in 24 hours).</p>
<p>This is an automated message, please do not reply.</p>
</body></html>`,
		m.FullName, m.Email, branchInfo, link)

	return html, text
}

func (s *BranchManagerService) resetEmailBody(m *entities.BranchManager, token string) (html string, text string) {
	link := s.resetLink(token)

	text = fmt.Sprintf(`Dear %s,

A password reset was requested for your Branch Manager account.
Open the link below to choose a new password:
%s

The link expires in 24 hours. If you did not request this, ignore this message.`,
		m.FullName, link)

	html = fmt.Sprintf(`<html><body>
<p>Dear <strong>%s</strong>,</p>
<p>A password reset was requested for your Branch Manager account.</p>
<p><a href="%s">Choose a new password</a> (the link expires in 24 hours).</p>
<p>If you did not request this, ignore this message.</p>
</body></html>`,
		m.FullName, link)

	return html, text
}
