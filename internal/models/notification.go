package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationPointsCredited    = "POINTS_CREDITED"
	NotificationChallengeApproved = "CHALLENGE_APPROVED"
	NotificationVoucherIssued     = "VOUCHER_ISSUED"
)

// Notification records a message sent to a member about their account.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Content   string             `bson:"content" json:"content"`
	Type      string             `bson:"type" json:"type"`     // POINTS_CREDITED, CHALLENGE_APPROVED, VOUCHER_ISSUED
	Status    string             `bson:"status" json:"status"` // SENT, FAILED
	SentDate  time.Time          `bson:"sentDate,omitempty" json:"sentDate,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
