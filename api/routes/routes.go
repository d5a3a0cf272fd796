package routes

import (
	"github.com/allinsport/bonus-backend/internal/config"
	"github.com/allinsport/bonus-backend/internal/handlers"
	"github.com/allinsport/bonus-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies carries the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler      *handlers.AuthHandler
	MemberHandler    *handlers.MemberHandler
	RewardsHandler   *handlers.RewardsHandler
	ChallengeHandler *handlers.ChallengeHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/register", deps.AuthHandler.Register)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		members := protected.Group("/members")
		{
			members.GET("", deps.MemberHandler.GetAllMembers)
			members.GET("/count", deps.MemberHandler.GetMemberCount)
			members.GET("/:id", deps.MemberHandler.GetMemberByID)
			members.GET("/:id/ledger", deps.MemberHandler.GetLedger)
			members.GET("/:id/vouchers", deps.MemberHandler.GetVouchers)
			members.GET("/:id/progress", deps.MemberHandler.GetProgress)
			members.GET("/:id/notifications", deps.MemberHandler.GetNotifications)
			members.POST("", deps.MemberHandler.CreateMember)
			members.PUT("/:id", deps.MemberHandler.UpdateMember)
			members.DELETE("/:id", deps.MemberHandler.DeleteMember)
			members.POST("/:id/points/adjust", deps.RewardsHandler.AdjustPoints)
		}

		points := protected.Group("/points")
		{
			points.GET("/requests", deps.RewardsHandler.GetPendingRequests)
			points.POST("/requests", deps.RewardsHandler.CreateRequest)
			points.POST("/requests/:id/approve", deps.RewardsHandler.ApproveRequest)
			points.POST("/requests/:id/reject", deps.RewardsHandler.RejectRequest)
			points.POST("/grant", deps.RewardsHandler.GrantPoints)
		}

		challenges := protected.Group("/challenges")
		{
			challenges.GET("", deps.ChallengeHandler.GetAllChallenges)
			challenges.POST("", deps.ChallengeHandler.CreateChallenge)
			challenges.GET("/submissions", deps.ChallengeHandler.GetPendingSubmissions)
			challenges.POST("/submissions/:id/approve", deps.ChallengeHandler.ApproveSubmission)
			challenges.POST("/:id/submissions", deps.ChallengeHandler.SubmitChallenge)
		}

		vouchers := protected.Group("/vouchers")
		{
			vouchers.GET("/requests", deps.RewardsHandler.GetVoucherRequests)
			vouchers.POST("/requests", deps.RewardsHandler.RequestVoucher)
			vouchers.POST("/requests/:id/issue", deps.RewardsHandler.IssueVoucher)
		}

		protected.GET("/rules", deps.RewardsHandler.GetRules)
		protected.GET("/tiers", deps.RewardsHandler.GetTiers)
		protected.GET("/dashboard/stats", deps.MemberHandler.GetDashboardStats)
	}

	return router
}
