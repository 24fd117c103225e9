package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/repositories"
	"academy-admin/pkg/config"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/service"
	"academy-admin/pkg/utils"
)

type AuthServiceInterface interface {
	LoginAdmin(ctx context.Context, payload dto.AdminLoginDTO) (*dto.AuthResponseDTO, string, error)
	LoginManager(ctx context.Context, payload dto.BranchManagerLoginDTO) (*dto.BranchManagerLoginResponseDTO, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
}

type AuthService struct {
	adminRepo   repositories.AdminRepositoryInterface
	managerRepo repositories.BranchManagerRepositoryInterface
	branchRepo  repositories.BranchRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	jwtService  service.JWTService
	cfg         *config.Config
	logger      *zap.Logger
}

func NewAuthService(
	adminRepo repositories.AdminRepositoryInterface,
	managerRepo repositories.BranchManagerRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg *config.Config,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		adminRepo:   adminRepo,
		managerRepo: managerRepo,
		branchRepo:  branchRepo,
		cacheRepo:   cacheRepo,
		jwtService:  jwtService,
		cfg:         cfg,
		logger:      logger,
	}
}

func attemptsKey(userID string) string { return fmt.Sprintf("login_attempts:%s", userID) }
func lockoutKey(userID string) string  { return fmt.Sprintf("lockout:%s", userID) }

func (s *AuthService) checkLockout(ctx context.Context, userID string) error {
	if _, err := s.cacheRepo.Get(ctx, lockoutKey(userID)); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, userID string) {
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey(userID))
	if err != nil {
		s.logger.Error("failed to count login attempt", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey(userID), s.cfg.Auth.LockoutDuration)
	}
	if attempts >= int64(s.cfg.Auth.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, lockoutKey(userID), "locked", s.cfg.Auth.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey(userID))
		s.logger.Warn("account locked after repeated failures", zap.String("userID", userID))
	}
}

func (s *AuthService) clearAttempts(ctx context.Context, userID string) {
	_ = s.cacheRepo.Del(ctx, attemptsKey(userID), lockoutKey(userID))
}

func (s *AuthService) LoginAdmin(ctx context.Context, payload dto.AdminLoginDTO) (*dto.AuthResponseDTO, string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := s.checkLockout(ctx, admin.ID); err != nil {
		return nil, "", err
	}

	if err := utils.ComparePasswords(admin.PasswordHash, payload.Password); err != nil {
		s.registerFailedAttempt(ctx, admin.ID)
		return nil, "", apperrors.ErrInvalidCredentials
	}
	s.clearAttempts(ctx, admin.ID)

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(service.TokenSubject{
		UserID: admin.ID,
		Email:  admin.Email,
		Role:   service.RoleSuperAdmin,
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("admin logged in", zap.String("adminID", admin.ID))

	return &dto.AuthResponseDTO{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, refreshToken, nil
}

func (s *AuthService) LoginManager(ctx context.Context, payload dto.BranchManagerLoginDTO) (*dto.BranchManagerLoginResponseDTO, string, error) {
	manager, err := s.managerRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := s.checkLockout(ctx, manager.ID); err != nil {
		return nil, "", err
	}

	if err := utils.ComparePasswords(manager.PasswordHash, payload.Password); err != nil {
		s.registerFailedAttempt(ctx, manager.ID)
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if !manager.IsActive {
		return nil, "", apperrors.ErrAccountInactive
	}
	s.clearAttempts(ctx, manager.ID)

	branches, err := s.branchRepo.FindByManager(ctx, manager.ID)
	if err != nil {
		return nil, "", err
	}
	managedBranches := make([]string, 0, len(branches))
	for _, b := range branches {
		managedBranches = append(managedBranches, b.ID)
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(service.TokenSubject{
		UserID:          manager.ID,
		Email:           manager.Email,
		Role:            service.RoleBranchManager,
		ManagedBranches: managedBranches,
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("branch manager logged in",
		zap.String("managerID", manager.ID),
		zap.Int("managedBranches", len(managedBranches)),
	)

	profile := dto.NewBranchManagerDTO(manager)
	return &dto.BranchManagerLoginResponseDTO{
		AccessToken:     accessToken,
		TokenType:       "bearer",
		ExpiresIn:       int64(s.jwtService.GetAccessTokenTTL().Seconds()),
		BranchManager:   profile,
		ManagedBranches: managedBranches,
	}, refreshToken, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. Claims
// are rebuilt from the current database state, so a deactivated account
// cannot refresh.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if !claims.IsRefreshToken {
		return "", "", apperrors.ErrInvalidToken
	}

	subject := service.TokenSubject{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}

	switch claims.Role {
	case service.RoleSuperAdmin:
		if _, err := s.adminRepo.FindByID(ctx, claims.UserID); err != nil {
			return "", "", apperrors.ErrUnauthorized
		}
	case service.RoleBranchManager:
		manager, err := s.managerRepo.FindByID(ctx, claims.UserID)
		if err != nil || !manager.IsActive {
			return "", "", apperrors.ErrUnauthorized
		}
		branches, err := s.branchRepo.FindByManager(ctx, manager.ID)
		if err != nil {
			return "", "", err
		}
		for _, b := range branches {
			subject.ManagedBranches = append(subject.ManagedBranches, b.ID)
		}
	default:
		return "", "", apperrors.ErrInvalidToken
	}

	return s.jwtService.GenerateTokens(subject)
}
