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

// CoachHandler covers roster management and coach-owned client data entry.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- Request Structs ---

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateProgramRequest struct {
	Name   string `json:"name" binding:"required"`
	Blocks []struct {
		Name          string `json:"name" binding:"required"`
		DurationWeeks int    `json:"durationWeeks" binding:"required,min=1"`
	} `json:"blocks"`
}

type CreateGoalRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpsertProfileRequest struct {
	BirthDate     *time.Time `json:"birthDate"`
	HeightCm      *float64   `json:"heightCm"`
	CurrentWeight *float64   `json:"currentWeightKg"`
	GoalWeight    *float64   `json:"goalWeightKg"`
	ActivityLevel string     `json:"activityLevel"`
}

// --- Handler Methods ---

// AddClientByEmail links an existing client account to the coach's roster.
func (h *CoachHandler) AddClientByEmail(c *gin.Context) {
	coachID, ok := coachIDFromContext(c)
	if !ok {
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), coachID, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrUserNotClientRole) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the coach's clients.
func (h *CoachHandler) GetManagedClients(c *gin.Context) {
	coachID, ok := coachIDFromContext(c)
	if !ok {
		return
	}

	clients, err := h.coachService.GetManagedClients(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	responses := make([]UserResponse, len(clients))
	for i := range clients {
		responses[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateProgram creates a training program for a managed client.
func (h *CoachHandler) CreateProgram(c *gin.Context) {
	coachID, clientID, ok := h.authorizeClient(c)
	if !ok {
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program := &domain.TrainingProgram{
		ClientID: clientID,
		CoachID:  coachID,
		Name:     req.Name,
		Status:   domain.ProgramStatusActive,
	}
	for i, block := range req.Blocks {
		program.Blocks = append(program.Blocks, domain.ProgramBlock{
			Name:          block.Name,
			DurationWeeks: block.DurationWeeks,
			Sequence:      i + 1,
		})
	}

	programID, err := h.coachService.CreateProgram(c.Request.Context(), program)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create program")
		return
	}
	program.ID = programID
	c.JSON(http.StatusCreated, program)
}

// CreateGoal creates a goal for a managed client.
func (h *CoachHandler) CreateGoal(c *gin.Context) {
	_, clientID, ok := h.authorizeClient(c)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal := &domain.Goal{
		ClientID: clientID,
		Title:    req.Title,
		Status:   domain.GoalStatusActive,
	}
	goalID, err := h.coachService.CreateGoal(c.Request.Context(), goal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create goal")
		return
	}
	goal.ID = goalID
	c.JSON(http.StatusCreated, goal)
}

// UpsertProfile creates or updates a managed client's profile.
func (h *CoachHandler) UpsertProfile(c *gin.Context) {
	_, clientID, ok := h.authorizeClient(c)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile := &domain.ClientProfile{
		ClientID:      clientID,
		BirthDate:     req.BirthDate,
		HeightCm:      req.HeightCm,
		CurrentWeight: req.CurrentWeight,
		GoalWeight:    req.GoalWeight,
		ActivityLevel: req.ActivityLevel,
	}
	if err := h.coachService.UpsertProfile(c.Request.Context(), profile); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// authorizeClient resolves ids and verifies roster membership.
func (h *CoachHandler) authorizeClient(c *gin.Context) (coachID, clientID primitive.ObjectID, ok bool) {
	coachID, ok = coachIDFromContext(c)
	if !ok {
		return
	}
	ok = false

	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID")
		return
	}

	if err := h.coachService.VerifyClientManaged(c.Request.Context(), coachID, clientID); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to verify client access")
		}
		return
	}

	return coachID, clientID, true
}

// coachIDFromContext extracts the authenticated coach's ObjectID.
func coachIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
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
