package routes

import (
	"github.com/labstack/echo/v4"

	"academy-admin/internal/controllers"
	"academy-admin/pkg/middleware"
	"academy-admin/pkg/service"
)

func runBranchRouter(api *echo.Group, ctrl *controllers.BranchController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/branches", authMW.Auth)

	group.GET("", ctrl.GetBranches)
	group.GET("/:id", ctrl.GetBranch)

	admin := group.Group("", authMW.RequireRoles(service.RoleSuperAdmin))
	{
		admin.POST("", ctrl.CreateBranch)
		admin.PUT("/:id", ctrl.UpdateBranch)
		admin.DELETE("/:id", ctrl.DeleteBranch)
	}
}
