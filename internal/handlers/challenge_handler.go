package handlers

import (
	"net/http"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChallengeHandler handles challenge catalog and submission HTTP requests
type ChallengeHandler struct {
	challengeService services.ChallengeService
	rewardsService   services.RewardsService
}

// NewChallengeHandler creates a new ChallengeHandler
func NewChallengeHandler(challengeService services.ChallengeService, rewardsService services.RewardsService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		rewardsService:   rewardsService,
	}
}

// GetAllChallenges handles GET /challenges
func (h *ChallengeHandler) GetAllChallenges(c *gin.Context) {
	challenges, err := h.challengeService.GetAllChallenges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get challenges: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, challenges)
}

// CreateChallenge handles POST /challenges
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Points      int    `json:"points" binding:"required"`
		From        string `json:"from" binding:"required"`
		To          string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, err := parseDate(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	challenge := &models.Challenge{
		Name:        req.Name,
		Description: req.Description,
		Points:      req.Points,
		From:        from,
		To:          to,
	}
	if err := h.challengeService.CreateChallenge(c.Request.Context(), challenge); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, challenge)
}

// SubmitChallenge handles POST /challenges/:id/submissions
func (h *ChallengeHandler) SubmitChallenge(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req struct {
		MemberID string `json:"memberId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID format"})
		return
	}

	submission, err := h.rewardsService.SubmitChallenge(c.Request.Context(), memberID, challengeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetPendingSubmissions handles GET /challenges/submissions
func (h *ChallengeHandler) GetPendingSubmissions(c *gin.Context) {
	submissions, err := h.rewardsService.PendingSubmissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get submissions: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ApproveSubmission handles POST /challenges/submissions/:id/approve
func (h *ChallengeHandler) ApproveSubmission(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result, err := h.rewardsService.ApproveChallenge(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
