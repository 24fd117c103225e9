package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"academy-admin/internal/controllers"
	"academy-admin/internal/repositories"
	"academy-admin/internal/services"
	"academy-admin/pkg/config"
	"academy-admin/pkg/email"
	"academy-admin/pkg/middleware"
	"academy-admin/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Manager *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, mailer email.Mailer, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: registering routes")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	managerRepo := repositories.NewBranchManagerRepository(dbConn, loggers.Manager)
	branchRepo := repositories.NewBranchRepository(dbConn, loggers.Main)
	adminRepo := repositories.NewAdminRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	authService := services.NewAuthService(adminRepo, managerRepo, branchRepo, cacheRepo, jwtSvc, cfg, loggers.Auth)
	managerService := services.NewBranchManagerService(managerRepo, branchRepo, cacheRepo, mailer, cfg, loggers.Manager)
	branchService := services.NewBranchService(branchRepo, managerRepo, loggers.Main)

	authCtrl := controllers.NewAuthController(authService, jwtSvc, loggers.Auth)
	managerCtrl := controllers.NewBranchManagerController(managerService, authService, loggers.Manager)
	branchCtrl := controllers.NewBranchController(branchService, loggers.Main)
	reportCtrl := controllers.NewReportController(managerService, loggers.Main)

	runAuthRouter(api, authCtrl)
	runBranchManagerRouter(api, managerCtrl, reportCtrl, authMW)
	runBranchRouter(api, branchCtrl, authMW)

	loggers.Main.Info("InitRouter: routes registered")
}
