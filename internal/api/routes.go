package api

import (
	"net/http"

	"stride/running-app/internal/config"
	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/service"
	"stride/running-app/internal/store"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	entities *store.EntityStore,
	coord *coordinator.Coordinator,
	planner service.PlannerService,
	strava service.StravaService,
) {
	goalHandler := NewGoalHandler(entities, coord)
	preferenceHandler := NewPreferenceHandler(entities, coord)
	planHandler := NewPlanHandler(entities, coord, planner)
	viewHandler := NewViewHandler(coord)
	stravaHandler := NewStravaHandler(strava, coord,
		cfg.Session.Secret, cfg.Session.Expiration, cfg.Strava.RedirectURI, cfg.Frontend.URL)

	sessionMiddleware := SessionMiddleware(cfg.Session.Secret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Strava-facing routes stay at the root: the redirect URI registered with
	// Strava and the frontend's fetch targets point here.
	router.GET("/auth", stravaHandler.Connect)
	router.GET("/callback", stravaHandler.Callback)
	router.GET("/workouts", sessionMiddleware, stravaHandler.Workouts)
	router.DELETE("/disconnect", sessionMiddleware, stravaHandler.Disconnect)
	router.POST("/createplan", planHandler.CreatePlan)

	apiV1 := router.Group("/api/v1")
	{
		goalGroup := apiV1.Group("/goals")
		{
			goalGroup.POST("", goalHandler.CreateGoal)
			goalGroup.GET("", goalHandler.ListGoals)
			goalGroup.DELETE("/:id", goalHandler.DeleteGoal)

			goalGroup.GET("/:id/preferences", preferenceHandler.GetPreference)
			goalGroup.PUT("/:id/preferences", preferenceHandler.UpsertPreference)

			goalGroup.GET("/:id/plan", planHandler.GetPlan)
			goalGroup.POST("/:id/plan/generate", planHandler.GeneratePlan)
			goalGroup.POST("/:id/plan/save", planHandler.SavePlan)
		}

		apiV1.GET("/view", viewHandler.GetView)
		apiV1.POST("/view", viewHandler.Navigate)
	}
}
