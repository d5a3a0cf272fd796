package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Challenge is a time-boxed task worth a fixed number of points.
type Challenge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Points      int                `bson:"points" json:"points"`
	From        time.Time          `bson:"from" json:"from"`
	To          time.Time          `bson:"to" json:"to"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ChallengeSubmission is a member's pending claim of a completed challenge.
// The challenge is denormalized into the submission so an approval credits
// the points the challenge was worth at submission time.
type ChallengeSubmission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	Challenge Challenge          `bson:"challenge" json:"challenge"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
