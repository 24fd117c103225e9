package routes

import (
	"github.com/labstack/echo/v4"

	"academy-admin/internal/controllers"
	"academy-admin/pkg/middleware"
	"academy-admin/pkg/service"
)

func runBranchManagerRouter(api *echo.Group, ctrl *controllers.BranchManagerController, reportCtrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/branch-managers")

	// Public endpoints for the manager-facing auth flows.
	group.POST("/login", ctrl.Login)
	group.POST("/forgot-password", ctrl.ForgotPassword)
	group.POST("/reset-password", ctrl.ResetPassword)

	// Manager self-service.
	group.GET("/me", ctrl.Me, authMW.Auth, authMW.RequireRoles(service.RoleBranchManager))
	group.PUT("/me", ctrl.UpdateMe, authMW.Auth, authMW.RequireRoles(service.RoleBranchManager))

	// A manager may read or update their own record; the controllers
	// enforce the self-or-admin rule.
	group.GET("/:id", ctrl.GetBranchManager, authMW.Auth)
	group.PUT("/:id", ctrl.UpdateBranchManager, authMW.Auth)

	// Administration, super admin only.
	admin := group.Group("", authMW.Auth, authMW.RequireRoles(service.RoleSuperAdmin))
	{
		admin.POST("", ctrl.CreateBranchManager)
		admin.GET("", ctrl.GetBranchManagers)
		admin.GET("/export", reportCtrl.Export)
		admin.DELETE("/:id", ctrl.DeleteBranchManager)
		admin.POST("/:id/send-credentials", ctrl.SendCredentials)
	}
}
