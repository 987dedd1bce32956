package api

import (
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles the service layer the HTTP API exposes.
type Services struct {
	Auth     service.AuthService
	Groups   service.GroupService
	Workouts service.WorkoutService
	Plans    service.PlanService
	Progress service.ProgressService
}

func SetupRoutes(router *gin.Engine, jwtCfg config.JWTConfig, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, jwtCfg)
	groupHandler := NewGroupHandler(svc.Groups)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	planHandler := NewPlanHandler(svc.Plans)
	progressHandler := NewProgressHandler(svc.Progress)

	authMiddleware := AuthMiddleware(svc.Auth, jwtCfg.CookieName)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/signin", authHandler.Signin)
			authGroup.POST("/signout", authHandler.Signout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}
	}

	protected := api.Group("")
	protected.Use(authMiddleware)
	{
		// --- Groups ---
		groups := protected.Group("/groups")
		{
			groups.POST("", RequireAction(service.ActionCreateGroup), groupHandler.CreateGroup)
			groups.GET("", groupHandler.ListGroups)
			groups.POST("/join", RequireAction(service.ActionJoinGroup), groupHandler.JoinGroup)
			groups.POST("/:id/invite", RequireAction(service.ActionGenerateInvite), groupHandler.GenerateInvite)
			groups.GET("/:id/invites", RequireAction(service.ActionListInvites), groupHandler.ListInvites)
			groups.GET("/:id/invites/:code/qr", RequireAction(service.ActionListInvites), groupHandler.InviteQR)
			groups.GET("/:id/members", RequireAction(service.ActionListMembers), groupHandler.ListMembers)
		}

		// --- Workout catalog ---
		workouts := protected.Group("/workouts")
		{
			workouts.POST("", RequireAction(service.ActionCreateWorkout), workoutHandler.CreateWorkout)
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.GET("/:id", workoutHandler.GetWorkout)
		}

		// --- Workout plans ---
		plans := protected.Group("/workout-plans")
		{
			plans.POST("", RequireAction(service.ActionCreatePlan), planHandler.CreatePlan)
			plans.GET("", planHandler.ListPlans)
			plans.GET("/:id", planHandler.GetPlan)
			plans.POST("/:id/workouts", RequireAction(service.ActionAddWorkoutToPlan), planHandler.AddWorkout)
			plans.POST("/:id/assign", RequireAction(service.ActionAssignPlan), planHandler.AssignPlan)
		}

		// --- Progress ---
		progress := protected.Group("/progress")
		{
			progress.POST("", RequireAction(service.ActionLogProgress), progressHandler.LogProgress)
			progress.GET("", progressHandler.ListProgress)
			progress.GET("/user", progressHandler.ListOwnProgress)
			progress.GET("/:id", progressHandler.GetProgress)
		}
	}
}
