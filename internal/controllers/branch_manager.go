package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/services"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/middleware"
	"academy-admin/pkg/service"
	"academy-admin/pkg/utils"
)

type BranchManagerController struct {
	managerService services.BranchManagerServiceInterface
	authService    services.AuthServiceInterface
	logger         *zap.Logger
}

func NewBranchManagerController(
	managerService services.BranchManagerServiceInterface,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) *BranchManagerController {
	return &BranchManagerController{
		managerService: managerService,
		authService:    authService,
		logger:         logger,
	}
}

func (ctrl *BranchManagerController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func managerIDParam(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewBadRequestError("Invalid branch manager ID")
	}
	return id, nil
}

func (ctrl *BranchManagerController) CreateBranchManager(c echo.Context) error {
	var payload dto.CreateBranchManagerDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("CreateBranchManager: bind failed", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.managerService.CreateBranchManager(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Error("CreateBranchManager: service failed", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Branch manager created successfully", http.StatusCreated)
}

func (ctrl *BranchManagerController) GetBranchManagers(c echo.Context) error {
	params := utils.ParseListParams(c.QueryParams())

	managers, total, err := ctrl.managerService.GetBranchManagers(c.Request().Context(), params)
	if err != nil {
		ctrl.logger.Error("GetBranchManagers: service failed", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.ListResponse(c, managers, "Branch managers retrieved successfully", http.StatusOK, total, params)
}

func (ctrl *BranchManagerController) GetBranchManager(c echo.Context) error {
	id, err := managerIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	// Managers may only read their own record.
	if middleware.CallerRole(c) != service.RoleSuperAdmin {
		if callerID, ok := middleware.CallerID(c); !ok || callerID != id {
			return ctrl.errorResponse(c, apperrors.ErrForbidden)
		}
	}

	res, err := ctrl.managerService.GetBranchManager(c.Request().Context(), id)
	if err != nil {
		ctrl.logger.Error("GetBranchManager: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Branch manager retrieved successfully", http.StatusOK)
}

func (ctrl *BranchManagerController) UpdateBranchManager(c echo.Context) error {
	id, err := managerIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	// Managers may only update their own record.
	if middleware.CallerRole(c) != service.RoleSuperAdmin {
		if callerID, ok := middleware.CallerID(c); !ok || callerID != id {
			return ctrl.errorResponse(c, apperrors.ErrForbidden)
		}
	}

	var payload dto.UpdateBranchManagerDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("UpdateBranchManager: bind failed", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.managerService.UpdateBranchManager(c.Request().Context(), id, payload)
	if err != nil {
		ctrl.logger.Error("UpdateBranchManager: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Branch manager updated successfully", http.StatusOK)
}

func (ctrl *BranchManagerController) DeleteBranchManager(c echo.Context) error {
	id, err := managerIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.managerService.DeleteBranchManager(c.Request().Context(), id); err != nil {
		ctrl.logger.Error("DeleteBranchManager: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, nil, "Branch manager deleted successfully", http.StatusOK)
}

func (ctrl *BranchManagerController) SendCredentials(c echo.Context) error {
	id, err := managerIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.managerService.SendCredentialsEmail(c.Request().Context(), id)
	if err != nil {
		ctrl.logger.Error("SendCredentials: service failed", zap.String("id", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Credentials email sent successfully", http.StatusOK)
}

func (ctrl *BranchManagerController) Login(c echo.Context) error {
	var payload dto.BranchManagerLoginDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, refreshToken, err := ctrl.authService.LoginManager(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("manager login failed", zap.String("email", payload.Email), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	setRefreshCookie(c, refreshToken)
	return utils.SuccessResponse(c, res, "Login successful", http.StatusOK)
}

func (ctrl *BranchManagerController) Me(c echo.Context) error {
	managerID, ok := middleware.CallerID(c)
	if !ok {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	res, err := ctrl.managerService.GetBranchManager(c.Request().Context(), managerID)
	if err != nil {
		ctrl.logger.Error("Me: service failed", zap.String("id", managerID), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Profile retrieved successfully", http.StatusOK)
}

func (ctrl *BranchManagerController) UpdateMe(c echo.Context) error {
	managerID, ok := middleware.CallerID(c)
	if !ok {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	var payload dto.UpdateProfileDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.managerService.UpdateOwnProfile(c.Request().Context(), managerID, payload)
	if err != nil {
		ctrl.logger.Error("UpdateMe: service failed", zap.String("id", managerID), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Profile updated successfully", http.StatusOK)
}

func (ctrl *BranchManagerController) ForgotPassword(c echo.Context) error {
	var payload dto.ForgotPasswordDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.managerService.ForgotPassword(c.Request().Context(), payload); err != nil {
		ctrl.logger.Error("ForgotPassword: service failed", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, nil, "If the email exists, reset instructions have been sent", http.StatusOK)
}

func (ctrl *BranchManagerController) ResetPassword(c echo.Context) error {
	var payload dto.ResetPasswordDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.managerService.ResetPassword(c.Request().Context(), payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, nil, "Password has been reset successfully", http.StatusOK)
}
