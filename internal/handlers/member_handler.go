package handlers

import (
	"net/http"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService       services.MemberService
	rewardsService      services.RewardsService
	notificationService services.NotificationService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService services.MemberService, rewardsService services.RewardsService, notificationService services.NotificationService) *MemberHandler {
	return &MemberHandler{
		memberService:       memberService,
		rewardsService:      rewardsService,
		notificationService: notificationService,
	}
}

// GetAllMembers handles GET /members
func (h *MemberHandler) GetAllMembers(c *gin.Context) {
	members, err := h.memberService.GetAllMembers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get members: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, members)
}

// GetMemberByID handles GET /members/:id
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// CreateMember handles POST /members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req struct {
		FirstName   string `json:"firstName" binding:"required"`
		LastName    string `json:"lastName" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		TotalPoints int    `json:"totalPoints"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := &models.Member{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		TotalPoints: req.TotalPoints,
	}
	if err := h.memberService.CreateMember(c.Request.Context(), member); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// UpdateMember handles PUT /members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, req.FirstName, req.LastName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteMember handles DELETE /members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// GetMemberCount handles GET /members/count
func (h *MemberHandler) GetMemberCount(c *gin.Context) {
	count, err := h.memberService.GetMemberCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get member count: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetLedger handles GET /members/:id/ledger
func (h *MemberHandler) GetLedger(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member.Ledger)
}

// GetVouchers handles GET /members/:id/vouchers
func (h *MemberHandler) GetVouchers(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member.Vouchers)
}

// GetProgress handles GET /members/:id/progress
func (h *MemberHandler) GetProgress(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	progress, err := h.rewardsService.Progress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetNotifications handles GET /members/:id/notifications
func (h *MemberHandler) GetNotifications(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	notifications, err := h.notificationService.GetNotificationsByMemberID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetDashboardStats handles GET /dashboard/stats
func (h *MemberHandler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	memberCount, err := h.memberService.GetMemberCount(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats: " + err.Error()})
		return
	}
	pendingRequests, err := h.rewardsService.PendingRequests(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats: " + err.Error()})
		return
	}
	pendingSubmissions, err := h.rewardsService.PendingSubmissions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats: " + err.Error()})
		return
	}
	voucherRequests, err := h.rewardsService.VoucherRequests(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats: " + err.Error()})
		return
	}

	issuedVouchers := 0
	members, err := h.memberService.GetAllMembers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats: " + err.Error()})
		return
	}
	for _, m := range members {
		issuedVouchers += len(m.Vouchers)
	}

	c.JSON(http.StatusOK, gin.H{
		"members":            memberCount,
		"pendingRequests":    len(pendingRequests),
		"pendingSubmissions": len(pendingSubmissions),
		"voucherRequests":    len(voucherRequests),
		"issuedVouchers":     issuedVouchers,
	})
}
