package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RewardsServiceImpl implements RewardsService
var _ RewardsService = (*RewardsServiceImpl)(nil)

// RewardsServiceImpl implements the points/rewards ledger rules
type RewardsServiceImpl struct {
	memberRepo          repositories.MemberRepository
	pointRequestRepo    repositories.PointRequestRepository
	challengeRepo       repositories.ChallengeRepository
	submissionRepo      repositories.SubmissionRepository
	voucherRequestRepo  repositories.VoucherRequestRepository
	notificationService NotificationService
}

// NewRewardsService creates a new RewardsServiceImpl
func NewRewardsService(
	memberRepo repositories.MemberRepository,
	pointRequestRepo repositories.PointRequestRepository,
	challengeRepo repositories.ChallengeRepository,
	submissionRepo repositories.SubmissionRepository,
	voucherRequestRepo repositories.VoucherRequestRepository,
	notificationService NotificationService,
) *RewardsServiceImpl {
	return &RewardsServiceImpl{
		memberRepo:          memberRepo,
		pointRequestRepo:    pointRequestRepo,
		challengeRepo:       challengeRepo,
		submissionRepo:      submissionRepo,
		voucherRequestRepo:  voucherRequestRepo,
		notificationService: notificationService,
	}
}

// asNotFound maps a missing document to the service-level sentinel
func asNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// RecordActivity creates a pending point request for a fixed-value activity
func (s *RewardsServiceImpl) RecordActivity(ctx context.Context, memberID primitive.ObjectID, ruleID string, date time.Time, note string) (*models.PointRequest, error) {
	if _, ok := models.RuleByID(ruleID); !ok {
		return nil, fmt.Errorf("unknown activity rule %q: %w", ruleID, ErrNotFound)
	}
	if _, err := s.memberRepo.FindByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	if date.IsZero() {
		date = time.Now()
	}

	request := &models.PointRequest{
		MemberID: memberID,
		RuleID:   ruleID,
		Date:     date,
		Note:     note,
		Status:   models.StatusPending,
	}
	if err := s.pointRequestRepo.Create(ctx, request); err != nil {
		slog.Error("Failed to queue point request", "error", err, "memberId", memberID, "rule", ruleID)
		return nil, fmt.Errorf("failed to queue point request: %w", err)
	}

	slog.Info("Point request queued", "requestId", request.ID, "memberId", memberID, "rule", ruleID)
	return request, nil
}

// PendingRequests lists the point request queue
func (s *RewardsServiceImpl) PendingRequests(ctx context.Context) ([]*models.PointRequest, error) {
	return s.pointRequestRepo.FindPending(ctx)
}

// ApproveRequest credits the rule's fixed point value to the requesting
// member and removes the request from the queue. The ledger append and the
// total increment are one write; a failure leaves both untouched.
func (s *RewardsServiceImpl) ApproveRequest(ctx context.Context, requestID primitive.ObjectID) (*models.CreditResult, error) {
	// 1. Fetch the queued request
	request, err := s.pointRequestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("point request not found: %w", asNotFound(err))
	}

	// 2. Look up the rule's fixed value
	rule, ok := models.RuleByID(request.RuleID)
	if !ok {
		slog.Error("Queued request references unknown rule", "requestId", requestID, "rule", request.RuleID)
		return nil, fmt.Errorf("unknown activity rule %q: %w", request.RuleID, ErrNotFound)
	}

	// 3. Fetch the member before mutating so the old total is known for
	// threshold-crossing detection
	member, err := s.memberRepo.FindByID(ctx, request.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}

	// 4. Apply the credit
	entry := &models.LedgerEntry{
		ID:     primitive.NewObjectID(),
		Date:   request.Date,
		Points: rule.Points,
		Rule:   rule.ID,
		Note:   request.Note,
	}
	result, err := s.credit(ctx, member, entry)
	if err != nil {
		return nil, err
	}

	// 5. Remove the request from the queue
	if err := s.pointRequestRepo.Delete(ctx, requestID); err != nil {
		slog.Error("Failed to dequeue approved point request", "error", err, "requestId", requestID)
		return nil, fmt.Errorf("failed to dequeue point request: %w", err)
	}

	s.notifyCredit(ctx, member, rule.Points, models.NotificationPointsCredited)
	slog.Info("Point request approved", "requestId", requestID, "memberId", member.ID, "points", rule.Points, "total", result.TotalPoints)
	return result, nil
}

// RejectRequest discards a pending request without crediting anything
func (s *RewardsServiceImpl) RejectRequest(ctx context.Context, requestID primitive.ObjectID) error {
	if err := s.pointRequestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("point request not found: %w", asNotFound(err))
	}
	slog.Info("Point request rejected", "requestId", requestID)
	return nil
}

// SubmitChallenge creates a pending submission for an active challenge.
// Submissions outside the challenge window or duplicating a pending
// submission for the same member are rejected.
func (s *RewardsServiceImpl) SubmitChallenge(ctx context.Context, memberID, challengeID primitive.ObjectID) (*models.ChallengeSubmission, error) {
	if _, err := s.memberRepo.FindByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("challenge not found: %w", asNotFound(err))
	}

	// From/To are date-granular; the window includes the whole final day
	now := time.Now()
	if now.Before(challenge.From) || now.After(challenge.To.AddDate(0, 0, 1)) {
		return nil, fmt.Errorf("challenge %q is not active: %w", challenge.Name, ErrInvalidInput)
	}

	existing, err := s.submissionRepo.FindPendingByMemberAndChallenge(ctx, memberID, challengeID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check for existing submission: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("submission already pending for challenge %q: %w", challenge.Name, ErrDuplicate)
	}

	submission := &models.ChallengeSubmission{
		MemberID:  memberID,
		Challenge: *challenge,
		Status:    models.StatusPending,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		slog.Error("Failed to queue challenge submission", "error", err, "memberId", memberID, "challengeId", challengeID)
		return nil, fmt.Errorf("failed to queue challenge submission: %w", err)
	}

	slog.Info("Challenge submission queued", "submissionId", submission.ID, "memberId", memberID, "challenge", challenge.Name)
	return submission, nil
}

// PendingSubmissions lists the challenge submission queue
func (s *RewardsServiceImpl) PendingSubmissions(ctx context.Context) ([]*models.ChallengeSubmission, error) {
	return s.submissionRepo.FindPending(ctx)
}

// ApproveChallenge credits the challenge's points to the submitting member
// and removes the submission from the queue
func (s *RewardsServiceImpl) ApproveChallenge(ctx context.Context, submissionID primitive.ObjectID) (*models.CreditResult, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("challenge submission not found: %w", asNotFound(err))
	}

	member, err := s.memberRepo.FindByID(ctx, submission.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}

	// Challenge credits are tagged as special events, noting the challenge name
	entry := &models.LedgerEntry{
		ID:     primitive.NewObjectID(),
		Date:   time.Now(),
		Points: submission.Challenge.Points,
		Rule:   "SPECIAL_EVENT",
		Note:   "Challenge: " + submission.Challenge.Name,
	}
	result, err := s.credit(ctx, member, entry)
	if err != nil {
		return nil, err
	}

	if err := s.submissionRepo.Delete(ctx, submissionID); err != nil {
		slog.Error("Failed to dequeue approved submission", "error", err, "submissionId", submissionID)
		return nil, fmt.Errorf("failed to dequeue submission: %w", err)
	}

	s.notifyCredit(ctx, member, submission.Challenge.Points, models.NotificationChallengeApproved)
	slog.Info("Challenge submission approved", "submissionId", submissionID, "memberId", member.ID, "points", submission.Challenge.Points)
	return result, nil
}

// RequestVoucher queues a voucher request for a tier the member has reached
func (s *RewardsServiceImpl) RequestVoucher(ctx context.Context, memberID primitive.ObjectID, threshold int) (*models.VoucherRequest, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	tier, ok := models.TierByMin(threshold)
	if !ok {
		return nil, fmt.Errorf("no tier with threshold %d: %w", threshold, ErrNotFound)
	}
	if member.TotalPoints < tier.Min {
		return nil, fmt.Errorf("member has %d points, tier starts at %d: %w", member.TotalPoints, tier.Min, ErrInvalidInput)
	}

	request, err := s.queueVoucherRequest(ctx, member, tier)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, fmt.Errorf("voucher for tier %q already requested or issued: %w", tier.Label, ErrDuplicate)
	}
	return request, nil
}

// VoucherRequests lists the voucher request queue
func (s *RewardsServiceImpl) VoucherRequests(ctx context.Context) ([]*models.VoucherRequest, error) {
	return s.voucherRequestRepo.FindAll(ctx)
}

// IssueVoucher turns a queued voucher request into an issued voucher on the
// member's account. The voucher expires twelve months after issue.
func (s *RewardsServiceImpl) IssueVoucher(ctx context.Context, requestID primitive.ObjectID, code string) (*models.Voucher, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("voucher code must not be empty: %w", ErrInvalidInput)
	}

	request, err := s.voucherRequestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("voucher request not found: %w", asNotFound(err))
	}
	member, err := s.memberRepo.FindByID(ctx, request.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}

	now := time.Now()
	voucher := &models.Voucher{
		ID:        primitive.NewObjectID(),
		Label:     request.TierLabel,
		Status:    models.VoucherIssued,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.AddDate(0, models.VoucherValidityMonths, 0),
	}
	if err := s.memberRepo.AttachVoucher(ctx, member.ID, voucher); err != nil {
		slog.Error("Failed to attach voucher", "error", err, "memberId", member.ID, "requestId", requestID)
		return nil, fmt.Errorf("failed to attach voucher: %w", asNotFound(err))
	}

	if err := s.voucherRequestRepo.Delete(ctx, requestID); err != nil {
		slog.Error("Failed to dequeue voucher request", "error", err, "requestId", requestID)
		return nil, fmt.Errorf("failed to dequeue voucher request: %w", err)
	}

	if s.notificationService != nil {
		if _, err := s.notificationService.NotifyVoucherIssued(ctx, member, voucher); err != nil {
			slog.Warn("Failed to notify member about issued voucher", "error", err, "memberId", member.ID)
		}
	}

	slog.Info("Voucher issued", "requestId", requestID, "memberId", member.ID, "label", voucher.Label, "expiresAt", voucher.ExpiresAt)
	return voucher, nil
}

// GrantPoints credits points directly, bypassing the approval queue. The rule
// may be a known activity rule ID or a free-text label; the point value is
// caller-supplied and may be negative for corrections.
func (s *RewardsServiceImpl) GrantPoints(ctx context.Context, memberID primitive.ObjectID, rule string, date time.Time, note string, points int) error {
	if strings.TrimSpace(rule) == "" {
		return fmt.Errorf("grant rule or label must not be empty: %w", ErrInvalidInput)
	}
	if points == 0 {
		return fmt.Errorf("grant of zero points: %w", ErrInvalidInput)
	}
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	if date.IsZero() {
		date = time.Now()
	}

	applied := clampDelta(member.TotalPoints, points)
	if applied == 0 {
		slog.Info("Grant fully clamped at zero balance", "memberId", memberID, "points", points)
		return nil
	}

	entry := &models.LedgerEntry{
		ID:     primitive.NewObjectID(),
		Date:   date,
		Points: applied,
		Rule:   rule,
		Note:   note,
	}
	if _, err := s.credit(ctx, member, entry); err != nil {
		return err
	}

	slog.Info("Points granted", "memberId", memberID, "rule", rule, "points", applied)
	return nil
}

// AdjustPoints applies a signed correction to a member's total. The total is
// clamped at zero; the applied delta is written as a synthetic ledger entry
// so the total always equals the ledger sum.
func (s *RewardsServiceImpl) AdjustPoints(ctx context.Context, memberID primitive.ObjectID, delta int) error {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}

	applied := clampDelta(member.TotalPoints, delta)
	if applied == 0 {
		return nil
	}

	entry := &models.LedgerEntry{
		ID:     primitive.NewObjectID(),
		Date:   time.Now(),
		Points: applied,
		Rule:   models.RuleAdjustment,
		Note:   "manual adjustment",
	}
	if _, err := s.credit(ctx, member, entry); err != nil {
		return err
	}

	slog.Info("Points adjusted", "memberId", memberID, "requested", delta, "applied", applied)
	return nil
}

// Progress reports a member's distance to the next reward threshold
func (s *RewardsServiceImpl) Progress(ctx context.Context, memberID primitive.ObjectID) (*models.Progress, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", asNotFound(err))
	}
	progress := models.ProgressFor(member.TotalPoints)
	return &progress, nil
}

// clampDelta limits a negative delta so the resulting total never drops
// below zero
func clampDelta(total, delta int) int {
	if total+delta < 0 {
		return -total
	}
	return delta
}

// credit applies one ledger entry to a member and derives voucher requests
// for any tier minimums the new total crossed. The member argument still
// carries the pre-credit total.
func (s *RewardsServiceImpl) credit(ctx context.Context, member *models.Member, entry *models.LedgerEntry) (*models.CreditResult, error) {
	if err := s.memberRepo.ApplyCredit(ctx, member.ID, entry); err != nil {
		slog.Error("Failed to apply credit", "error", err, "memberId", member.ID, "points", entry.Points)
		return nil, fmt.Errorf("failed to apply credit: %w", asNotFound(err))
	}

	oldTotal := member.TotalPoints
	newTotal := oldTotal + entry.Points
	for _, tier := range models.Tiers {
		if tier.Min > oldTotal && tier.Min <= newTotal {
			if _, err := s.queueVoucherRequest(ctx, member, tier); err != nil {
				// The credit itself succeeded; a failed derivation is logged,
				// not propagated
				slog.Warn("Failed to derive voucher request", "error", err, "memberId", member.ID, "tier", tier.Label)
			}
		}
	}

	return &models.CreditResult{
		MemberID:       member.ID,
		PointsCredited: entry.Points,
		TotalPoints:    newTotal,
	}, nil
}

// queueVoucherRequest creates a voucher request for the tier unless one is
// already queued or the member already holds that tier's voucher. Returns
// nil without error when skipped as a duplicate.
func (s *RewardsServiceImpl) queueVoucherRequest(ctx context.Context, member *models.Member, tier models.Tier) (*models.VoucherRequest, error) {
	existing, err := s.voucherRequestRepo.FindByMemberAndThreshold(ctx, member.ID, tier.Min)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check voucher request queue: %w", err)
	}
	if existing != nil {
		return nil, nil
	}
	for _, v := range member.Vouchers {
		if v.Label == tier.Label {
			return nil, nil
		}
	}

	request := &models.VoucherRequest{
		MemberID:  member.ID,
		TierLabel: tier.Label,
		Threshold: tier.Min,
		Status:    models.StatusRequested,
	}
	if err := s.voucherRequestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to queue voucher request: %w", err)
	}

	slog.Info("Voucher request queued", "memberId", member.ID, "tier", tier.Label, "threshold", tier.Min)
	return request, nil
}

// notifyCredit records a best-effort notification about a credited approval
func (s *RewardsServiceImpl) notifyCredit(ctx context.Context, member *models.Member, points int, notificationType string) {
	if s.notificationService == nil {
		return
	}
	if _, err := s.notificationService.NotifyCredit(ctx, member, points, notificationType); err != nil {
		slog.Warn("Failed to notify member about credit", "error", err, "memberId", member.ID, "type", notificationType)
	}
}
