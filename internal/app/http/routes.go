package httpEngine

import (
	"net/http"
	"time"

	"escalas-server/configs"
	"escalas-server/internal/controllers"
	"escalas-server/internal/identity"
	"escalas-server/internal/logics"
	"escalas-server/internal/middlewares"
	"escalas-server/internal/repositories"
	"escalas-server/internal/utils"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers every route of the server.
func RegisterRoutes(e *echo.Echo) {
	// Health check endpoint (no JWT middleware).
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, from Escalas Server!")
	})

	// Shared dependencies.
	identityClient := identity.NewClient(
		configs.Configs.Identity.BaseURL,
		configs.Configs.Identity.ServiceKey,
		configs.Configs.Identity.RedirectURL,
		configs.Logger,
	)
	rosterCache := logics.NewRosterCache(5 * time.Minute)

	// Services. Profile and function mutations invalidate the roster cache
	// too, since the cached payload embeds the joined rows.
	userService := logics.NewUserService(identityClient, rosterCache)
	functionService := logics.NewFunctionService(rosterCache)
	notificationService := logics.NewNotificationService(utils.EmailSvc)
	scheduleService := logics.NewScheduleService(userService, rosterCache, notificationService)
	avatarService := logics.NewAvatarService(repositories.DBS.S3, configs.Configs.S3.BucketName, configs.Configs.S3.Region, userService)

	// Controllers with their required services injected.
	base := controllers.NewBaseController(userService)
	functionController := controllers.NewFunctionController(base, functionService)
	userController := controllers.NewUserController(base, avatarService)
	scheduleController := controllers.NewScheduleController(base, scheduleService)
	pushController := controllers.NewPushController(notificationService)
	authController := controllers.NewAuthController(identityClient)

	// Invitation callback (no JWT middleware, the browser arrives anonymous).
	e.GET("/auth/callback", authController.Callback)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middlewares.JWTMiddleware)

	// Team function endpoints.
	apiV1.GET("/functions", functionController.ListFunctions)
	apiV1.POST("/functions", functionController.CreateFunction)
	apiV1.PUT("/functions", functionController.UpdateFunction)
	apiV1.DELETE("/functions", functionController.DeleteFunction)

	// User endpoints.
	apiV1.GET("/users", userController.ListUsers)
	apiV1.GET("/users/me", userController.Me)
	apiV1.POST("/users", userController.InviteUser)
	apiV1.PUT("/users/:id", userController.UpdateUser)
	apiV1.DELETE("/users/:id", userController.DeleteUser)
	apiV1.POST("/users/:id/avatar", userController.UploadAvatar)
	apiV1.POST("/users/me/password", userController.SetPassword)
	apiV1.PUT("/users/me/push-subscription", userController.SetPushSubscription)
	apiV1.DELETE("/users/me/push-subscription", userController.ClearPushSubscription)

	// Schedule endpoints.
	apiV1.GET("/schedules", scheduleController.ListSchedules)
	apiV1.GET("/schedules/available", scheduleController.AvailableUsers)
	apiV1.POST("/schedules", scheduleController.CreateSchedule)
	apiV1.POST("/schedules/batch", scheduleController.CreateScheduleBatch)
	apiV1.DELETE("/schedules/:id", scheduleController.DeleteSchedule)

	// Service-to-service push endpoint, guarded by the shared token.
	push := e.Group("/push")
	push.Use(middlewares.ServiceTokenMiddleware)
	push.POST("", pushController.SendPush)
}
