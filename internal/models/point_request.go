package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Queue item statuses. Items never re-enter a pending state: approval and
// rejection both remove the item from its queue.
const (
	StatusPending   = "pending"
	StatusRequested = "requested"
)

// PointRequest is a member's pending claim for a fixed-value activity.
type PointRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	RuleID    string             `bson:"ruleId" json:"ruleId"`
	Date      time.Time          `bson:"date" json:"date"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreditResult reports the outcome of an approval that credited points.
type CreditResult struct {
	MemberID       primitive.ObjectID `json:"memberId"`
	PointsCredited int                `json:"pointsCredited"`
	TotalPoints    int                `json:"totalPoints"`
}
