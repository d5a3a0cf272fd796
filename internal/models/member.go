package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerEntry is one point-affecting transaction on a member's account.
// Entries are append-only: once written they are never mutated or deleted.
type LedgerEntry struct {
	ID     primitive.ObjectID `bson:"id" json:"id"`
	Date   time.Time          `bson:"date" json:"date"`
	Points int                `bson:"points" json:"points"` // Positive for earned, negative for corrections
	Rule   string             `bson:"rule" json:"rule"`     // ActivityRule ID or free-text label for manual grants
	Note   string             `bson:"note,omitempty" json:"note,omitempty"`
}

// Member represents a gym client participating in the bonus program.
// Invariant: TotalPoints == sum of Ledger[*].Points at all times; every
// mutation of the total is written together with its ledger entry.
type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Email       string             `bson:"email" json:"email"`
	TotalPoints int                `bson:"totalPoints" json:"totalPoints"`
	Ledger      []LedgerEntry      `bson:"ledger" json:"ledger"`
	Vouchers    []Voucher          `bson:"vouchers" json:"vouchers"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FullName returns the member's display name.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
