package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/entities"
	"academy-admin/pkg/config"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", BaseURL: "http://localhost:8080"},
		Auth: config.AuthConfig{
			MaxLoginAttempts: 5,
			LockoutDuration:  15 * time.Minute,
			ResetTokenTTL:    24 * time.Hour,
			ResetRequestGap:  time.Minute,
		},
	}
}

type managerServiceFixture struct {
	managers *fakeManagerRepo
	branches *fakeBranchRepo
	cache    *fakeCacheRepo
	mailer   *fakeMailer
	svc      BranchManagerServiceInterface
}

func newManagerServiceFixture() *managerServiceFixture {
	f := &managerServiceFixture{
		managers: newFakeManagerRepo(),
		branches: newFakeBranchRepo(),
		cache:    newFakeCacheRepo(),
		mailer:   &fakeMailer{},
	}
	f.svc = NewBranchManagerService(f.managers, f.branches, f.cache, f.mailer, testConfig(), zap.NewNop())
	return f
}

func (f *managerServiceFixture) addBranch(name, city, state string) *entities.Branch {
	b := &entities.Branch{
		ID:       uuid.New().String(),
		Name:     name,
		Address:  entities.BranchAddress{City: city, State: state},
		IsActive: true,
	}
	_ = f.branches.CreateBranch(context.Background(), b)
	return b
}

func validCreatePayload() dto.CreateBranchManagerDTO {
	return dto.CreateBranchManagerDTO{
		PersonalInfo: dto.PersonalInfoDTO{FirstName: "Asha", LastName: "Nair", Gender: "female"},
		ContactInfo:  dto.ContactInfoDTO{Email: "asha@academy.local", Phone: "9876543210"},
	}
}

func TestCreateBranchManagerDerivesFields(t *testing.T) {
	f := newManagerServiceFixture()
	branch := f.addBranch("Downtown Dojo", "Bengaluru", "Karnataka")

	payload := validCreatePayload()
	payload.BranchID = branch.ID

	created, err := f.svc.CreateBranchManager(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "Asha Nair", created.FullName)
	require.NotNil(t, created.BranchAssignment)
	assert.Equal(t, "Downtown Dojo", created.BranchAssignment.BranchName)
	assert.Equal(t, "Bengaluru, Karnataka", created.BranchAssignment.BranchLocation)

	stored, err := f.managers.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.Equal(t, "+919876543210", stored.Phone)
	assert.Equal(t, "Branch Manager", stored.ProfessionalInfo.Designation)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestCreateBranchManagerHashesGivenPassword(t *testing.T) {
	f := newManagerServiceFixture()

	payload := validCreatePayload()
	payload.ContactInfo.Password = "plain-password"

	created, err := f.svc.CreateBranchManager(context.Background(), payload)
	require.NoError(t, err)

	stored, err := f.managers.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "plain-password", stored.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(stored.PasswordHash, "plain-password"))
}

func TestCreateBranchManagerRejectsDuplicates(t *testing.T) {
	f := newManagerServiceFixture()

	_, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	_, err = f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateBranchManagerAllowsReuseAfterDeactivation(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBranchManager(context.Background(), created.ID))

	_, err = f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	assert.NoError(t, err)
}

func TestUpdateBranchManagerMergesGroups(t *testing.T) {
	f := newManagerServiceFixture()
	branch := f.addBranch("Lakeside Academy", "Mumbai", "Maharashtra")

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	updated, err := f.svc.UpdateBranchManager(context.Background(), created.ID, dto.UpdateBranchManagerDTO{
		PersonalInfo: &dto.PersonalInfoDTO{FirstName: "Asha", LastName: "Menon"},
		BranchID:     null.StringFrom(branch.ID),
		Notes:        null.StringFrom("transferred"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha Menon", updated.FullName)
	require.NotNil(t, updated.BranchAssignment)
	assert.Equal(t, "Lakeside Academy", updated.BranchAssignment.BranchName)
	assert.Equal(t, "transferred", updated.Notes)
	// Untouched groups stay as they were.
	assert.Equal(t, "asha@academy.local", updated.Email)
}

func TestUpdateBranchManagerClearsAssignment(t *testing.T) {
	f := newManagerServiceFixture()
	branch := f.addBranch("Downtown Dojo", "Bengaluru", "Karnataka")

	payload := validCreatePayload()
	payload.BranchID = branch.ID
	created, err := f.svc.CreateBranchManager(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, created.BranchAssignment)

	updated, err := f.svc.UpdateBranchManager(context.Background(), created.ID, dto.UpdateBranchManagerDTO{
		BranchID: null.NewString("", true),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.BranchAssignment)
}

func TestUpdateBranchManagerEmailConflict(t *testing.T) {
	f := newManagerServiceFixture()

	first, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	other := validCreatePayload()
	other.ContactInfo.Email = "ravi@academy.local"
	other.ContactInfo.Phone = "9123456789"
	second, err := f.svc.CreateBranchManager(context.Background(), other)
	require.NoError(t, err)

	_, err = f.svc.UpdateBranchManager(context.Background(), second.ID, dto.UpdateBranchManagerDTO{
		ContactInfo: &dto.ContactInfoDTO{Email: first.Email, Phone: "9123456789"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
}

func TestReactivationBlockedWhenContactReused(t *testing.T) {
	f := newManagerServiceFixture()

	first, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBranchManager(context.Background(), first.ID))

	// The freed email and phone go to a new manager.
	_, err = f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	_, err = f.svc.UpdateBranchManager(context.Background(), first.ID, dto.UpdateBranchManagerDTO{
		IsActive: null.BoolFrom(true),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
	assert.Contains(t, apperrors.UserMessage(err), "already exists")

	stored, err := f.managers.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestReactivationSucceedsWithoutConflict(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBranchManager(context.Background(), created.ID))

	updated, err := f.svc.UpdateBranchManager(context.Background(), created.ID, dto.UpdateBranchManagerDTO{
		IsActive: null.BoolFrom(true),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestDeleteBranchManagerGuardedByAssignments(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	branch := f.addBranch("Downtown Dojo", "Bengaluru", "Karnataka")
	branch.ManagerID = &created.ID
	require.NoError(t, f.branches.UpdateBranch(context.Background(), branch))

	err = f.svc.DeleteBranchManager(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
	assert.Contains(t, apperrors.UserMessage(err), "Downtown Dojo")

	// Reassign, then the delete goes through as a deactivation.
	branch.ManagerID = nil
	require.NoError(t, f.branches.UpdateBranch(context.Background(), branch))
	require.NoError(t, f.svc.DeleteBranchManager(context.Background(), created.ID))

	stored, err := f.managers.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestSendCredentialsEmail(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	res, err := f.svc.SendCredentialsEmail(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, res.Email)

	stored, err := f.managers.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.ResetTokenExpiry, time.Minute)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, created.Email, f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Text, *stored.ResetToken)
}

func TestForgotPasswordUnknownEmailStaysQuiet(t *testing.T) {
	f := newManagerServiceFixture()

	err := f.svc.ForgotPassword(context.Background(), dto.ForgotPasswordDTO{Email: "nobody@academy.local"})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
}

func TestForgotPasswordRateLimited(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), dto.ForgotPasswordDTO{Email: created.Email}))
	require.NoError(t, f.svc.ForgotPassword(context.Background(), dto.ForgotPasswordDTO{Email: created.Email}))

	assert.Len(t, f.mailer.sent, 1)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	_, err = f.svc.SendCredentialsEmail(context.Background(), created.ID)
	require.NoError(t, err)

	stored, err := f.managers.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	token := *stored.ResetToken

	err = f.svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{Token: token, NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	stored, err = f.managers.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
	assert.NoError(t, utils.ComparePasswords(stored.PasswordHash, "brand-new-pass"))

	// The token is single use.
	err = f.svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{Token: token, NewPassword: "another-pass"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, f.managers.SetResetToken(context.Background(), created.ID, "stale-token", expired))

	err = f.svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{Token: "stale-token", NewPassword: "brand-new-pass"})
	require.Error(t, err)
	assert.Contains(t, apperrors.UserMessage(err), "expired")
}

func TestUpdateOwnProfileSplitsFullName(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	updated, err := f.svc.UpdateOwnProfile(context.Background(), created.ID, dto.UpdateProfileDTO{
		FullName: "Asha K Menon",
		Phone:    "9000000001",
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha K Menon", updated.FullName)
	assert.Equal(t, "Asha", updated.PersonalInfo.FirstName)
	assert.Equal(t, "K Menon", updated.PersonalInfo.LastName)
	assert.True(t, strings.HasSuffix(updated.Phone, "9000000001"))
}

func TestGetBranchManagersFiltersInactive(t *testing.T) {
	f := newManagerServiceFixture()

	created, err := f.svc.CreateBranchManager(context.Background(), validCreatePayload())
	require.NoError(t, err)

	other := validCreatePayload()
	other.ContactInfo.Email = "ravi@academy.local"
	other.ContactInfo.Phone = "9123456789"
	second, err := f.svc.CreateBranchManager(context.Background(), other)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBranchManager(context.Background(), second.ID))

	active, total, err := f.svc.GetBranchManagers(context.Background(), utils.ListParams{Limit: 50, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, active, 1)
	assert.Equal(t, created.ID, active[0].ID)

	all, total, err := f.svc.GetBranchManagers(context.Background(), utils.ListParams{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, all, 2)
}

func TestGetBranchManagersPaginationWindow(t *testing.T) {
	f := newManagerServiceFixture()

	emails := []string{"asha@academy.local", "ravi@academy.local", "meera@academy.local"}
	phones := []string{"9876543210", "9123456789", "9000000002"}
	for i := range emails {
		payload := validCreatePayload()
		payload.ContactInfo.Email = emails[i]
		payload.ContactInfo.Phone = phones[i]
		_, err := f.svc.CreateBranchManager(context.Background(), payload)
		require.NoError(t, err)
	}

	firstPage, total, err := f.svc.GetBranchManagers(context.Background(), utils.ListParams{Limit: 2, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Len(t, firstPage, 2)

	secondPage, total, err := f.svc.GetBranchManagers(context.Background(), utils.ListParams{Skip: 2, Limit: 2, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, secondPage, 1)

	// Pages never overlap.
	for _, m := range firstPage {
		assert.NotEqual(t, secondPage[0].ID, m.ID)
	}

	empty, total, err := f.svc.GetBranchManagers(context.Background(), utils.ListParams{Skip: 10, Limit: 2, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Empty(t, empty)
}
