package services

import (
	"context"
	"errors"
	"time"

	"github.com/allinsport/bonus-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors returned by all services. Handlers map these to HTTP
// statuses; a failed operation leaves every entity unmodified.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate")
)

// RewardsService owns the point-accrual and tier-threshold rules: the rule
// table, the tier table, per-member totals and ledgers, and the approval
// queues for point requests, challenge submissions and voucher requests.
type RewardsService interface {
	// RecordActivity creates a pending point request for a fixed-value activity
	RecordActivity(ctx context.Context, memberID primitive.ObjectID, ruleID string, date time.Time, note string) (*models.PointRequest, error)

	// PendingRequests lists the point request queue
	PendingRequests(ctx context.Context) ([]*models.PointRequest, error)

	// ApproveRequest credits the rule's points to the requesting member and
	// removes the request from the queue
	ApproveRequest(ctx context.Context, requestID primitive.ObjectID) (*models.CreditResult, error)

	// RejectRequest discards a pending request without crediting anything
	RejectRequest(ctx context.Context, requestID primitive.ObjectID) error

	// SubmitChallenge creates a pending submission for an active challenge
	SubmitChallenge(ctx context.Context, memberID, challengeID primitive.ObjectID) (*models.ChallengeSubmission, error)

	// PendingSubmissions lists the challenge submission queue
	PendingSubmissions(ctx context.Context) ([]*models.ChallengeSubmission, error)

	// ApproveChallenge credits the challenge's points to the submitting member
	// and removes the submission from the queue
	ApproveChallenge(ctx context.Context, submissionID primitive.ObjectID) (*models.CreditResult, error)

	// RequestVoucher queues a voucher request for a tier the member has reached
	RequestVoucher(ctx context.Context, memberID primitive.ObjectID, threshold int) (*models.VoucherRequest, error)

	// VoucherRequests lists the voucher request queue
	VoucherRequests(ctx context.Context) ([]*models.VoucherRequest, error)

	// IssueVoucher turns a queued voucher request into an issued voucher on the
	// member's account
	IssueVoucher(ctx context.Context, requestID primitive.ObjectID, code string) (*models.Voucher, error)

	// GrantPoints credits points directly, bypassing the approval queue
	GrantPoints(ctx context.Context, memberID primitive.ObjectID, rule string, date time.Time, note string, points int) error

	// AdjustPoints applies a signed correction to a member's total
	AdjustPoints(ctx context.Context, memberID primitive.ObjectID, delta int) error

	// Progress reports a member's distance to the next reward threshold
	Progress(ctx context.Context, memberID primitive.ObjectID) (*models.Progress, error)
}

// MemberService handles member account management
type MemberService interface {
	GetAllMembers(ctx context.Context) ([]*models.Member, error)
	GetMemberByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	CreateMember(ctx context.Context, member *models.Member) error
	UpdateMember(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*models.Member, error)
	DeleteMember(ctx context.Context, id primitive.ObjectID) error
	GetMemberCount(ctx context.Context) (int64, error)
}

// ChallengeService handles the challenge catalog
type ChallengeService interface {
	GetAllChallenges(ctx context.Context) ([]*models.Challenge, error)
	GetChallengeByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error)
	CreateChallenge(ctx context.Context, challenge *models.Challenge) error
}

// AuthService handles admin authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // Returns JWT token
}

// NotificationService records and sends member notifications
type NotificationService interface {
	NotifyCredit(ctx context.Context, member *models.Member, points int, notificationType string) (*models.Notification, error)
	NotifyVoucherIssued(ctx context.Context, member *models.Member, voucher *models.Voucher) (*models.Notification, error)
	GetNotificationsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.Notification, error)
}
