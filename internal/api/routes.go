package api

import (
	"net/http"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires handlers onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	checkInService service.CheckInService,
	analysisService service.AnalysisService,
	applyService service.ApplyService,
	eventService service.EventService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	clientHandler := NewClientHandler(checkInService)
	analysisHandler := NewAnalysisHandler(analysisService, applyService, eventService, coachService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.POST("/checkins/weekly", clientHandler.SubmitWeeklyCheckIn)
			clientGroup.POST("/checkins/daily", clientHandler.SubmitDailyCheckIn)
			clientGroup.POST("/workouts", clientHandler.LogWorkout)
			clientGroup.GET("/nutrition", clientHandler.GetMyNutritionTargets)
			clientGroup.GET("/supplements", clientHandler.GetMySupplements)
		}

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/clients", coachHandler.AddClientByEmail)
			coachGroup.GET("/clients", coachHandler.GetManagedClients)

			coachGroup.PUT("/clients/:clientId/profile", coachHandler.UpsertProfile)
			coachGroup.POST("/clients/:clientId/programs", coachHandler.CreateProgram)
			coachGroup.POST("/clients/:clientId/goals", coachHandler.CreateGoal)

			// --- Analysis Cycle ---
			coachGroup.POST("/clients/:clientId/analysis", analysisHandler.GenerateAnalysis)
			coachGroup.POST("/clients/:clientId/recommendations/apply", analysisHandler.ApplyRecommendation)
			coachGroup.GET("/clients/:clientId/analysis/:analysisId/transcript", analysisHandler.GetTranscript)

			// --- Coaching Event Log ---
			coachGroup.GET("/clients/:clientId/events", analysisHandler.GetEvents)
			coachGroup.POST("/clients/:clientId/events", analysisHandler.AppendManualEvent)
		}
	}
}
