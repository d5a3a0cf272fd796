package repositories

import (
	"context"

	"github.com/allinsport/bonus-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRepository defines the interface for member account data operations
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	// FindAll returns all members ordered by total points descending.
	FindAll(ctx context.Context) ([]*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	// ApplyCredit appends a ledger entry and adjusts the total by the entry's
	// points as one write. The two changes are never visible separately.
	ApplyCredit(ctx context.Context, memberID primitive.ObjectID, entry *models.LedgerEntry) error
	// AttachVoucher appends an issued voucher to the member's voucher list.
	AttachVoucher(ctx context.Context, memberID primitive.ObjectID, voucher *models.Voucher) error
}

// PointRequestRepository defines the interface for the point request queue
type PointRequestRepository interface {
	Create(ctx context.Context, request *models.PointRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PointRequest, error)
	FindPending(ctx context.Context) ([]*models.PointRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// ChallengeRepository defines the interface for the challenge catalog
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error)
	FindAll(ctx context.Context) ([]*models.Challenge, error)
}

// SubmissionRepository defines the interface for the challenge submission queue
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.ChallengeSubmission) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ChallengeSubmission, error)
	FindPending(ctx context.Context) ([]*models.ChallengeSubmission, error)
	FindPendingByMemberAndChallenge(ctx context.Context, memberID, challengeID primitive.ObjectID) (*models.ChallengeSubmission, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// VoucherRequestRepository defines the interface for the voucher request queue
type VoucherRequestRepository interface {
	Create(ctx context.Context, request *models.VoucherRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.VoucherRequest, error)
	FindByMemberAndThreshold(ctx context.Context, memberID primitive.ObjectID, threshold int) (*models.VoucherRequest, error)
	FindAll(ctx context.Context) ([]*models.VoucherRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// NotificationRepository defines the interface for notification records
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.Notification, error)
}

// AdminUserRepository defines the interface for admin account data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
