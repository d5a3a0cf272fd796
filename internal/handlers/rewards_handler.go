package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/services"
	"github.com/allinsport/bonus-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardsHandler handles point request, voucher and grant HTTP requests
type RewardsHandler struct {
	rewardsService services.RewardsService
}

// NewRewardsHandler creates a new RewardsHandler
func NewRewardsHandler(rewardsService services.RewardsService) *RewardsHandler {
	return &RewardsHandler{
		rewardsService: rewardsService,
	}
}

// GetRules handles GET /rules
func (h *RewardsHandler) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, models.PointRules)
}

// GetTiers handles GET /tiers
func (h *RewardsHandler) GetTiers(c *gin.Context) {
	c.JSON(http.StatusOK, models.Tiers)
}

// CreateRequest handles POST /points/requests
func (h *RewardsHandler) CreateRequest(c *gin.Context) {
	var req struct {
		MemberID string `json:"memberId" binding:"required"`
		RuleID   string `json:"ruleId" binding:"required"`
		Date     string `json:"date"`
		Note     string `json:"note"`
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
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	request, err := h.rewardsService.RecordActivity(c.Request.Context(), memberID, req.RuleID, date, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetPendingRequests handles GET /points/requests
func (h *RewardsHandler) GetPendingRequests(c *gin.Context) {
	requests, err := h.rewardsService.PendingRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get point requests: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ApproveRequest handles POST /points/requests/:id/approve
func (h *RewardsHandler) ApproveRequest(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result, err := h.rewardsService.ApproveRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RejectRequest handles POST /points/requests/:id/reject
func (h *RewardsHandler) RejectRequest(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.rewardsService.RejectRequest(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Point request rejected"})
}

// GrantPoints handles POST /points/grant
func (h *RewardsHandler) GrantPoints(c *gin.Context) {
	var req struct {
		MemberID string `json:"memberId" binding:"required"`
		Rule     string `json:"rule" binding:"required"`
		Date     string `json:"date"`
		Note     string `json:"note"`
		Points   int    `json:"points" binding:"required"`
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
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	if err := h.rewardsService.GrantPoints(c.Request.Context(), memberID, req.Rule, date, req.Note, req.Points); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Points granted"})
}

// AdjustPoints handles POST /members/:id/points/adjust
func (h *RewardsHandler) AdjustPoints(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rewardsService.AdjustPoints(c.Request.Context(), id, req.Delta); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Points adjusted"})
}

// GetVoucherRequests handles GET /vouchers/requests
func (h *RewardsHandler) GetVoucherRequests(c *gin.Context) {
	requests, err := h.rewardsService.VoucherRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get voucher requests: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// RequestVoucher handles POST /vouchers/requests
func (h *RewardsHandler) RequestVoucher(c *gin.Context) {
	var req struct {
		MemberID  string `json:"memberId" binding:"required"`
		Threshold int    `json:"threshold" binding:"required"`
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

	request, err := h.rewardsService.RequestVoucher(c.Request.Context(), memberID, req.Threshold)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// IssueVoucher handles POST /vouchers/requests/:id/issue
func (h *RewardsHandler) IssueVoucher(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	// The code is optional; one is generated when the body omits it
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		code, err := utils.GenerateVoucherCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate voucher code: " + err.Error()})
			return
		}
		req.Code = code
	}

	voucher, err := h.rewardsService.IssueVoucher(c.Request.Context(), id, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, voucher)
}
