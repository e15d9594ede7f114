package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalysisHandler exposes the AI analysis cycle to the coach: generate an
// analysis, apply an actionable recommendation, and read the event log.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	applyService    service.ApplyService
	eventService    service.EventService
	coachService    service.CoachService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(
	analysisService service.AnalysisService,
	applyService service.ApplyService,
	eventService service.EventService,
	coachService service.CoachService,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		applyService:    applyService,
		eventService:    eventService,
		coachService:    coachService,
	}
}

// --- Request Structs ---

type GenerateAnalysisRequest struct {
	Task service.AnalysisTask `json:"task"`
}

type ApplyRecommendationRequest struct {
	AnalysisID     string                           `json:"analysisId"`
	Recommendation domain.ActionableRecommendation `json:"recommendation" binding:"required"`
}

type ManualEventRequest struct {
	Area        string `json:"area"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// --- Handler Methods ---

// GenerateAnalysis runs one analysis cycle for the client and returns the
// validated result. Nothing is applied here.
func (h *AnalysisHandler) GenerateAnalysis(c *gin.Context) {
	_, clientID, ok := h.authorizeClientAccess(c)
	if !ok {
		return
	}

	// Body is optional; the default task is used when absent.
	var req GenerateAnalysisRequest
	_ = c.ShouldBindJSON(&req)
	if req.Task == "" {
		req.Task = service.TaskWeeklyAnalysis
	}

	result, err := h.analysisService.Generate(c.Request.Context(), clientID, req.Task)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTask) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, service.ErrGenerationFailed) {
			// No side effects occurred; the coach can simply retry.
			abortWithError(c, http.StatusBadGateway, "Analysis generation failed, please retry")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to build client context")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ApplyRecommendation applies one actionable recommendation the coach
// confirmed in review.
func (h *AnalysisHandler) ApplyRecommendation(c *gin.Context) {
	_, clientID, ok := h.authorizeClientAccess(c)
	if !ok {
		return
	}

	var req ApplyRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	effect, err := h.applyService.Apply(c.Request.Context(), clientID, req.Recommendation, req.AnalysisID)
	if err != nil {
		if errors.Is(err, service.ErrRecommendationNotApplicable) || errors.Is(err, service.ErrUnknownProposalType) {
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errors.Is(err, service.ErrApplyFailed) {
			// All-or-nothing: nothing changed, retry is safe.
			abortWithError(c, http.StatusConflict, "Apply failed, no changes were made; please retry")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during apply")
		return
	}

	c.JSON(http.StatusOK, effect)
}

// GetTranscript returns a temporary download URL for an archived analysis
// transcript.
func (h *AnalysisHandler) GetTranscript(c *gin.Context) {
	_, _, ok := h.authorizeClientAccess(c)
	if !ok {
		return
	}

	analysisID := c.Param("analysisId")
	url, err := h.analysisService.TranscriptURL(c.Request.Context(), analysisID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Transcript is not available")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetEvents returns the client's recent coaching events.
func (h *AnalysisHandler) GetEvents(c *gin.Context) {
	_, clientID, ok := h.authorizeClientAccess(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	events, err := h.eventService.Recent(c.Request.Context(), clientID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read coaching events")
		return
	}
	c.JSON(http.StatusOK, events)
}

// AppendManualEvent records a decision the coach made by hand.
func (h *AnalysisHandler) AppendManualEvent(c *gin.Context) {
	_, clientID, ok := h.authorizeClientAccess(c)
	if !ok {
		return
	}

	var req ManualEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	event, err := h.eventService.AppendManual(c.Request.Context(), clientID, req.Area, req.Title, req.Description)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to append coaching event")
		return
	}
	c.JSON(http.StatusCreated, event)
}

// authorizeClientAccess resolves the coach id from the token, the client id
// from the path, and verifies the client belongs to the coach's roster.
func (h *AnalysisHandler) authorizeClientAccess(c *gin.Context) (coachID, clientID primitive.ObjectID, ok bool) {
	coachIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	coachID, err = primitive.ObjectIDFromHex(coachIDStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return
	}

	clientID, err = primitive.ObjectIDFromHex(c.Param("clientId"))
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
