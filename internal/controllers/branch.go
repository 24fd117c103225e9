package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/services"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

type BranchController struct {
	branchService services.BranchServiceInterface
	logger        *zap.Logger
}

func NewBranchController(branchService services.BranchServiceInterface, logger *zap.Logger) *BranchController {
	return &BranchController{branchService: branchService, logger: logger}
}

func (ctrl *BranchController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func branchIDParam(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewBadRequestError("Invalid branch ID")
	}
	return id, nil
}

func (ctrl *BranchController) GetBranches(c echo.Context) error {
	params := utils.ParseListParams(c.QueryParams())

	branches, total, err := ctrl.branchService.GetBranches(c.Request().Context(), params)
	if err != nil {
		ctrl.logger.Error("GetBranches: service failed", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.ListResponse(c, branches, "Branches retrieved successfully", http.StatusOK, total, params)
}

func (ctrl *BranchController) GetBranch(c echo.Context) error {
	id, err := branchIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.branchService.GetBranch(c.Request().Context(), id)
	if err != nil {
		ctrl.logger.Error("GetBranch: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Branch retrieved successfully", http.StatusOK)
}

func (ctrl *BranchController) CreateBranch(c echo.Context) error {
	var payload dto.CreateBranchDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.branchService.CreateBranch(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Error("CreateBranch: service failed", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Branch created successfully", http.StatusCreated)
}

func (ctrl *BranchController) UpdateBranch(c echo.Context) error {
	id, err := branchIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.UpdateBranchDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.branchService.UpdateBranch(c.Request().Context(), id, payload)
	if err != nil {
		ctrl.logger.Error("UpdateBranch: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Branch updated successfully", http.StatusOK)
}

func (ctrl *BranchController) DeleteBranch(c echo.Context) error {
	id, err := branchIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.branchService.DeleteBranch(c.Request().Context(), id); err != nil {
		ctrl.logger.Error("DeleteBranch: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, nil, "Branch deleted successfully", http.StatusOK)
}
