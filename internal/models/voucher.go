package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Voucher statuses. Redemption and expiry are terminal and assigned manually;
// there is no automatic expiry sweep.
const (
	VoucherIssued   = "issued"
	VoucherRedeemed = "redeemed"
	VoucherExpired  = "expired"
)

// VoucherValidityMonths is how long an issued voucher stays valid.
const VoucherValidityMonths = 12

// VoucherRequest is a member's claim on a reached reward tier, waiting for an
// admin to issue the voucher.
type VoucherRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	TierLabel string             `bson:"tierLabel" json:"tierLabel"`
	Threshold int                `bson:"threshold" json:"threshold"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Voucher is an issued reward artifact attached to a member's account.
type Voucher struct {
	ID        primitive.ObjectID `bson:"id" json:"id"`
	Label     string             `bson:"label" json:"label"`
	Status    string             `bson:"status" json:"status"`
	Code      string             `bson:"code" json:"code"`
	IssuedAt  time.Time          `bson:"issuedAt" json:"issued_at"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expires_at"`
}
