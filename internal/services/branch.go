package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/entities"
	"academy-admin/internal/repositories"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

type BranchServiceInterface interface {
	GetBranches(ctx context.Context, params utils.ListParams) ([]dto.BranchDTO, uint64, error)
	GetBranch(ctx context.Context, id string) (*dto.BranchDTO, error)
	CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*dto.BranchDTO, error)
	UpdateBranch(ctx context.Context, id string, payload dto.UpdateBranchDTO) (*dto.BranchDTO, error)
	DeleteBranch(ctx context.Context, id string) error
}

type BranchService struct {
	branchRepo  repositories.BranchRepositoryInterface
	managerRepo repositories.BranchManagerRepositoryInterface
	logger      *zap.Logger
}

func NewBranchService(
	branchRepo repositories.BranchRepositoryInterface,
	managerRepo repositories.BranchManagerRepositoryInterface,
	logger *zap.Logger,
) BranchServiceInterface {
	return &BranchService{branchRepo: branchRepo, managerRepo: managerRepo, logger: logger}
}

func (s *BranchService) GetBranches(ctx context.Context, params utils.ListParams) ([]dto.BranchDTO, uint64, error) {
	branches, total, err := s.branchRepo.GetBranches(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.BranchDTO, 0, len(branches))
	for i := range branches {
		out = append(out, dto.NewBranchDTO(&branches[i]))
	}
	return out, total, nil
}

func (s *BranchService) GetBranch(ctx context.Context, id string) (*dto.BranchDTO, error) {
	branch, err := s.branchRepo.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewBranchDTO(branch)
	return &res, nil
}

func (s *BranchService) CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*dto.BranchDTO, error) {
	branch := &entities.Branch{
		ID:   uuid.New().String(),
		Name: payload.Name,
		Address: entities.BranchAddress{
			Line1:   payload.Address.Line1,
			Area:    payload.Address.Area,
			City:    payload.Address.City,
			State:   payload.Address.State,
			ZipCode: payload.Address.ZipCode,
			Country: payload.Address.Country,
		},
		IsActive: true,
	}

	if payload.ManagerID != "" {
		if _, err := s.managerRepo.FindByID(ctx, payload.ManagerID); err != nil {
			return nil, apperrors.NewBadRequestError("Assigned manager not found")
		}
		managerID := payload.ManagerID
		branch.ManagerID = &managerID
	}

	if err := s.branchRepo.CreateBranch(ctx, branch); err != nil {
		return nil, err
	}

	if branch.ManagerID != nil {
		s.refreshAssignment(ctx, *branch.ManagerID, branch)
	}

	s.logger.Info("branch created", zap.String("id", branch.ID), zap.String("name", branch.Name))

	res := dto.NewBranchDTO(branch)
	return &res, nil
}

func (s *BranchService) UpdateBranch(ctx context.Context, id string, payload dto.UpdateBranchDTO) (*dto.BranchDTO, error) {
	branch, err := s.branchRepo.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	previousManager := ""
	if branch.ManagerID != nil {
		previousManager = *branch.ManagerID
	}

	if payload.Name != nil {
		branch.Name = *payload.Name
	}
	if payload.Address != nil {
		branch.Address = entities.BranchAddress{
			Line1:   payload.Address.Line1,
			Area:    payload.Address.Area,
			City:    payload.Address.City,
			State:   payload.Address.State,
			ZipCode: payload.Address.ZipCode,
			Country: payload.Address.Country,
		}
	}
	if payload.ManagerID != nil {
		if *payload.ManagerID == "" {
			branch.ManagerID = nil
		} else {
			if _, err := s.managerRepo.FindByID(ctx, *payload.ManagerID); err != nil {
				return nil, apperrors.NewBadRequestError("Assigned manager not found")
			}
			branch.ManagerID = payload.ManagerID
		}
	}

	if err := s.branchRepo.UpdateBranch(ctx, branch); err != nil {
		return nil, err
	}

	// Keep the denormalized assignment on manager records in step with
	// the branch it points at.
	if branch.ManagerID != nil {
		s.refreshAssignment(ctx, *branch.ManagerID, branch)
	}
	if previousManager != "" && (branch.ManagerID == nil || *branch.ManagerID != previousManager) {
		s.refreshAssignment(ctx, previousManager, nil)
	}

	res := dto.NewBranchDTO(branch)
	return &res, nil
}

func (s *BranchService) DeleteBranch(ctx context.Context, id string) error {
	branch, err := s.branchRepo.FindBranch(ctx, id)
	if err != nil {
		return err
	}

	if err := s.branchRepo.DeleteBranch(ctx, id); err != nil {
		return err
	}

	if branch.ManagerID != nil {
		s.refreshAssignment(ctx, *branch.ManagerID, nil)
	}

	s.logger.Info("branch deactivated", zap.String("id", id), zap.String("name", branch.Name))
	return nil
}

func (s *BranchService) refreshAssignment(ctx context.Context, managerID string, branch *entities.Branch) {
	manager, err := s.managerRepo.FindByID(ctx, managerID)
	if err != nil {
		s.logger.Warn("manager for assignment refresh not found", zap.String("managerID", managerID))
		return
	}

	if branch == nil {
		manager.BranchAssignment = nil
	} else {
		manager.BranchAssignment = &entities.BranchAssignment{
			BranchID:       branch.ID,
			BranchName:     branch.Name,
			BranchLocation: branch.Location(),
		}
	}

	if err := s.managerRepo.Update(ctx, manager); err != nil {
		s.logger.Error("failed to refresh branch assignment",
			zap.String("managerID", managerID), zap.Error(err))
	}
}
