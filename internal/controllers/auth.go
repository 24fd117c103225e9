package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/services"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/service"
	"academy-admin/pkg/utils"
)

const refreshCookieName = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtService  service.JWTService
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

func setRefreshCookie(c echo.Context, refreshToken string) {
	cookie := &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	c.SetCookie(cookie)
}

func clearRefreshCookie(c echo.Context) {
	cookie := &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	c.SetCookie(cookie)
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.AdminLoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: bind failed", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, refreshToken, err := ctrl.authService.LoginAdmin(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("admin login failed", zap.String("email", payload.Email), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	setRefreshCookie(c, refreshToken)
	return utils.SuccessResponse(c, res, "Login successful", http.StatusOK)
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	accessToken, refreshToken, err := ctrl.authService.RefreshTokens(c.Request().Context(), cookie.Value)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	setRefreshCookie(c, refreshToken)

	res := dto.AuthResponseDTO{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(ctrl.jwtService.GetAccessTokenTTL().Seconds()),
	}
	return utils.SuccessResponse(c, res, "Tokens refreshed successfully", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	clearRefreshCookie(c)
	return utils.SuccessResponse(c, nil, "Logged out successfully", http.StatusOK)
}
