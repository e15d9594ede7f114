package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler covers the client's own data entry: check-ins and workout
// logs, plus read access to their current nutrition targets.
type ClientHandler struct {
	checkInService service.CheckInService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(checkInService service.CheckInService) *ClientHandler {
	return &ClientHandler{checkInService: checkInService}
}

// --- Request Structs ---

type WeeklyCheckInRequest struct {
	WeightKg    *float64 `json:"weightKg"`
	EnergyLevel *int     `json:"energyLevel"`
	SleepRating *int     `json:"sleepRating"`
	StressLevel *int     `json:"stressLevel"`
	Notes       string   `json:"notes"`
}

type DailyCheckInRequest struct {
	WeightKg    *float64 `json:"weightKg"`
	Steps       *int     `json:"steps"`
	SleepHours  *float64 `json:"sleepHours"`
	CaloriesEst *int     `json:"caloriesEst"`
	Notes       string   `json:"notes"`
}

type WorkoutLogRequest struct {
	SessionName string     `json:"sessionName" binding:"required"`
	PerformedAt *time.Time `json:"performedAt"`
	Notes       string     `json:"notes"`
	Exercises   []struct {
		ExerciseName string `json:"exerciseName" binding:"required"`
		Sets         []struct {
			Reps     int      `json:"reps" binding:"required,min=1"`
			WeightKg *float64 `json:"weightKg"`
			RPE      *float64 `json:"rpe"`
		} `json:"sets"`
	} `json:"exercises"`
}

// --- Handler Methods ---

// SubmitWeeklyCheckIn stores the authenticated client's weekly check-in.
func (h *ClientHandler) SubmitWeeklyCheckIn(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		return
	}

	var req WeeklyCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	checkIn := &domain.WeeklyCheckIn{
		ClientID:    clientID,
		WeightKg:    req.WeightKg,
		EnergyLevel: req.EnergyLevel,
		SleepRating: req.SleepRating,
		StressLevel: req.StressLevel,
		Notes:       req.Notes,
	}
	id, err := h.checkInService.SubmitWeekly(c.Request.Context(), checkIn)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save check-in")
		return
	}
	checkIn.ID = id
	c.JSON(http.StatusCreated, checkIn)
}

// SubmitDailyCheckIn stores the authenticated client's daily check-in.
func (h *ClientHandler) SubmitDailyCheckIn(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		return
	}

	var req DailyCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	checkIn := &domain.DailyCheckIn{
		ClientID:    clientID,
		WeightKg:    req.WeightKg,
		Steps:       req.Steps,
		SleepHours:  req.SleepHours,
		CaloriesEst: req.CaloriesEst,
		Notes:       req.Notes,
	}
	id, err := h.checkInService.SubmitDaily(c.Request.Context(), checkIn)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkIn.ID = id
	c.JSON(http.StatusCreated, checkIn)
}

// LogWorkout stores a completed training session.
func (h *ClientHandler) LogWorkout(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		return
	}

	var req WorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workoutLog := &domain.WorkoutLog{
		ClientID:    clientID,
		SessionName: req.SessionName,
		Notes:       req.Notes,
	}
	if req.PerformedAt != nil {
		workoutLog.PerformedAt = *req.PerformedAt
	}
	for _, exercise := range req.Exercises {
		exerciseLog := domain.ExerciseLog{ExerciseName: exercise.ExerciseName}
		for _, set := range exercise.Sets {
			exerciseLog.Sets = append(exerciseLog.Sets, domain.SetLog{
				Reps:     set.Reps,
				WeightKg: set.WeightKg,
				RPE:      set.RPE,
			})
		}
		workoutLog.Exercises = append(workoutLog.Exercises, exerciseLog)
	}

	id, err := h.checkInService.LogWorkout(c.Request.Context(), workoutLog)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save workout log")
		return
	}
	workoutLog.ID = id
	c.JSON(http.StatusCreated, workoutLog)
}

// GetMyNutritionTargets returns the client's current macro targets.
func (h *ClientHandler) GetMyNutritionTargets(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		return
	}

	targets, err := h.checkInService.GetNutritionTargets(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read nutrition targets")
		return
	}
	if targets == nil {
		c.JSON(http.StatusOK, gin.H{"targets": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

// GetMySupplements lists the client's supplements.
func (h *ClientHandler) GetMySupplements(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		return
	}

	supplements, err := h.checkInService.GetSupplements(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read supplements")
		return
	}
	c.JSON(http.StatusOK, supplements)
}

// clientIDFromContext extracts the authenticated client's ObjectID.
func clientIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}
