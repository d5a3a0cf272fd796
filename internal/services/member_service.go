package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure MemberServiceImpl implements MemberService
var _ MemberService = (*MemberServiceImpl)(nil)

// MemberServiceImpl handles member account management
type MemberServiceImpl struct {
	memberRepo repositories.MemberRepository
}

// NewMemberService creates a new MemberServiceImpl
func NewMemberService(memberRepo repositories.MemberRepository) *MemberServiceImpl {
	return &MemberServiceImpl{
		memberRepo: memberRepo,
	}
}

// GetAllMembers retrieves all members ordered by total points descending
func (s *MemberServiceImpl) GetAllMembers(ctx context.Context) ([]*models.Member, error) {
	return s.memberRepo.FindAll(ctx)
}

// GetMemberByID retrieves a member with ledger and vouchers
func (s *MemberServiceImpl) GetMemberByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	return member, nil
}

// CreateMember creates a new member account. A non-zero starting total is
// recorded as one opening adjustment entry so the total equals the ledger sum
// from the first write.
func (s *MemberServiceImpl) CreateMember(ctx context.Context, member *models.Member) error {
	if strings.TrimSpace(member.Email) == "" {
		return fmt.Errorf("member email must not be empty: %w", ErrInvalidInput)
	}
	if member.TotalPoints < 0 {
		return fmt.Errorf("starting total must not be negative: %w", ErrInvalidInput)
	}

	existing, err := s.memberRepo.FindByEmail(ctx, member.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check for existing member: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("member with email %s already exists: %w", member.Email, ErrDuplicate)
	}

	if member.TotalPoints > 0 && len(member.Ledger) == 0 {
		member.Ledger = []models.LedgerEntry{{
			ID:     primitive.NewObjectID(),
			Points: member.TotalPoints,
			Rule:   models.RuleAdjustment,
			Note:   "opening balance",
		}}
	}
	return s.memberRepo.Create(ctx, member)
}

// UpdateMember updates a member's profile fields. Points are only touched by
// the rewards operations, never here.
func (s *MemberServiceImpl) UpdateMember(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}

	if firstName != "" {
		member.FirstName = firstName
	}
	if lastName != "" {
		member.LastName = lastName
	}
	if email != "" {
		member.Email = email
	}
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", asNotFound(err))
	}
	return member, nil
}

// DeleteMember deletes a member account
func (s *MemberServiceImpl) DeleteMember(ctx context.Context, id primitive.ObjectID) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	return nil
}

// GetMemberCount gets the total number of members
func (s *MemberServiceImpl) GetMemberCount(ctx context.Context) (int64, error) {
	return s.memberRepo.Count(ctx)
}
