package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allinsport/bonus-backend/api/routes"
	"github.com/allinsport/bonus-backend/internal/config"
	"github.com/allinsport/bonus-backend/internal/handlers"
	"github.com/allinsport/bonus-backend/internal/repositories"
	mongorepo "github.com/allinsport/bonus-backend/internal/repositories/mongodb"
	"github.com/allinsport/bonus-backend/internal/services"
	"github.com/allinsport/bonus-backend/pkg/mailer"
	"github.com/allinsport/bonus-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present; real deployments use environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var memberRepo repositories.MemberRepository = mongorepo.NewMemberRepository(db)
	var pointRequestRepo repositories.PointRequestRepository = mongorepo.NewPointRequestRepository(db)
	var challengeRepo repositories.ChallengeRepository = mongorepo.NewChallengeRepository(db)
	var submissionRepo repositories.SubmissionRepository = mongorepo.NewSubmissionRepository(db)
	var voucherRequestRepo repositories.VoucherRequestRepository = mongorepo.NewVoucherRequestRepository(db)
	var notificationRepo repositories.NotificationRepository = mongorepo.NewNotificationRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Mail gateway
	var gateway mailer.Gateway
	if cfg.Mail.MockMail {
		gateway = mailer.NewMockGateway()
	} else {
		gateway = mailer.NewHTTPGateway(cfg.Mail.BaseURL, cfg.Mail.APIKey, cfg.Mail.FromAddress)
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo, gateway)
	rewardsService := services.NewRewardsService(memberRepo, pointRequestRepo, challengeRepo, submissionRepo, voucherRequestRepo, notificationService)
	memberService := services.NewMemberService(memberRepo)
	challengeService := services.NewChallengeService(challengeRepo)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		MemberHandler:    handlers.NewMemberHandler(memberService, rewardsService, notificationService),
		RewardsHandler:   handlers.NewRewardsHandler(rewardsService),
		ChallengeHandler: handlers.NewChallengeHandler(challengeService, rewardsService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
