package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evotion/coaching-engine/internal/api"
	"evotion/coaching-engine/internal/config"
	"evotion/coaching-engine/internal/llm"
	mongorepo "evotion/coaching-engine/internal/repository/mongo"
	"evotion/coaching-engine/internal/service"
	"evotion/coaching-engine/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coaching Engine Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongorepo.EnsureProfileIndexes(ctx, appDB.Collection("client_profiles"), appDB.Collection("intake_forms"))
		mongorepo.EnsureCheckInIndexes(ctx, appDB.Collection("weekly_checkins"), appDB.Collection("daily_checkins"))
		mongorepo.EnsureProgramIndexes(ctx, appDB.Collection("training_programs"), appDB.Collection("workout_logs"))
		mongorepo.EnsureNutritionIndexes(ctx, appDB.Collection("nutrition_targets"), appDB.Collection("supplements"))
		mongorepo.EnsureGoalIndexes(ctx, appDB.Collection("goals"))
		mongorepo.EnsureEventIndexes(ctx, appDB.Collection("coaching_events"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Transcript Archive (optional) ---
	var archive storage.ArchiveStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing transcript archive storage...")
		archive, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("No S3 bucket configured; analysis transcripts will not be archived.")
	}

	// --- Initialize Model Provider ---
	log.Println("Initializing model provider...")
	provider, err := llm.NewGeminiProvider(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize model provider: %v", err)
	}
	defer provider.Close()

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	profileRepo := mongorepo.NewMongoProfileRepository(appDB)
	checkInRepo := mongorepo.NewMongoCheckInRepository(appDB)
	programRepo := mongorepo.NewMongoProgramRepository(appDB)
	nutritionRepo := mongorepo.NewMongoNutritionRepository(appDB)
	goalRepo := mongorepo.NewMongoGoalRepository(appDB)
	eventRepo := mongorepo.NewMongoEventRepository(appDB)
	txnManager := mongorepo.NewMongoTransactionManager(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo, programRepo, goalRepo, profileRepo)
	checkInService := service.NewCheckInService(checkInRepo, programRepo, nutritionRepo)
	contextService := service.NewContextService(userRepo, profileRepo, checkInRepo, programRepo, nutritionRepo, goalRepo, eventRepo)
	analysisService := service.NewAnalysisService(contextService, provider, archive)
	applyService := service.NewApplyService(nutritionRepo, eventRepo, txnManager)
	eventService := service.NewEventService(eventRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, checkInService, analysisService, applyService, eventService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // Analysis requests wait on the model provider
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
