package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ChallengeServiceImpl implements ChallengeService
var _ ChallengeService = (*ChallengeServiceImpl)(nil)

// ChallengeServiceImpl handles the challenge catalog
type ChallengeServiceImpl struct {
	challengeRepo repositories.ChallengeRepository
}

// NewChallengeService creates a new ChallengeServiceImpl
func NewChallengeService(challengeRepo repositories.ChallengeRepository) *ChallengeServiceImpl {
	return &ChallengeServiceImpl{
		challengeRepo: challengeRepo,
	}
}

// GetAllChallenges retrieves the challenge catalog
func (s *ChallengeServiceImpl) GetAllChallenges(ctx context.Context) ([]*models.Challenge, error) {
	return s.challengeRepo.FindAll(ctx)
}

// GetChallengeByID retrieves a challenge by ID
func (s *ChallengeServiceImpl) GetChallengeByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("challenge not found: %w", asNotFound(err))
	}
	return challenge, nil
}

// CreateChallenge validates and creates a new challenge
func (s *ChallengeServiceImpl) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	if strings.TrimSpace(challenge.Name) == "" {
		return fmt.Errorf("challenge name must not be empty: %w", ErrInvalidInput)
	}
	if challenge.Points <= 0 {
		return fmt.Errorf("challenge points must be positive: %w", ErrInvalidInput)
	}
	if challenge.To.Before(challenge.From) {
		return fmt.Errorf("challenge window ends before it starts: %w", ErrInvalidInput)
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		slog.Error("Failed to create challenge", "error", err, "name", challenge.Name)
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	slog.Info("Challenge created", "challengeId", challenge.ID, "name", challenge.Name, "points", challenge.Points)
	return nil
}
