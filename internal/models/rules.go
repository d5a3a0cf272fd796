package models

import "math"

// ActivityRule maps a named action type to a fixed point reward.
type ActivityRule struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// RuleAdjustment tags synthetic ledger entries written by manual point
// adjustments and CSV imports. It is not part of the rule table.
const RuleAdjustment = "ADJUSTMENT"

// PointRules is the fixed rule table. Defined once at start, never edited.
var PointRules = []ActivityRule{
	{ID: "TRAINING", Label: "Training", Points: 1},
	{ID: "NEW_CLIENT", Label: "Neukunde (≥10er-Abo)", Points: 50},
	{ID: "COMPANY_TRAINING", Label: "Firmentraining", Points: 75},
	{ID: "PRIVATE_TRAINING", Label: "Privattraining", Points: 10},
	{ID: "SPECIAL_EVENT", Label: "Spezial-Event", Points: 5},
}

// RuleByID looks up an activity rule by its identifier.
func RuleByID(id string) (ActivityRule, bool) {
	for _, r := range PointRules {
		if r.ID == id {
			return r, true
		}
	}
	return ActivityRule{}, false
}

// RewardKind distinguishes the two reward types a tier can pay out.
type RewardKind string

const (
	RewardVoucher         RewardKind = "VOUCHER"
	RewardPrivateTraining RewardKind = "PRIVATE_TRAINING"
)

// Reward describes what a tier pays out: a cash voucher amount in CHF, or a
// number of free private training sessions.
type Reward struct {
	Kind  RewardKind `json:"kind"`
	Value int        `json:"value"`
}

// Tier is one contiguous point range mapping to a single reward. The top
// tier's Max is math.MaxInt (unbounded).
type Tier struct {
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Reward Reward `json:"reward"`
	Label  string `json:"label"`
}

// Tiers is the fixed threshold table. Ranges are contiguous and exhaustive
// from the first tier's minimum upward: Tiers[i].Max+1 == Tiers[i+1].Min.
var Tiers = []Tier{
	{Min: 100, Max: 149, Reward: Reward{Kind: RewardVoucher, Value: 50}, Label: "CHF 50"},
	{Min: 150, Max: 199, Reward: Reward{Kind: RewardVoucher, Value: 100}, Label: "CHF 100"},
	{Min: 200, Max: 249, Reward: Reward{Kind: RewardVoucher, Value: 200}, Label: "CHF 200"},
	{Min: 250, Max: math.MaxInt, Reward: Reward{Kind: RewardPrivateTraining, Value: 1}, Label: "1× PT"},
}

// TierForPoints returns the tier whose range contains the given total, or
// false if the total is below the lowest minimum.
func TierForPoints(points int) (Tier, bool) {
	for _, t := range Tiers {
		if points >= t.Min && points <= t.Max {
			return t, true
		}
	}
	return Tier{}, false
}

// TierByMin looks up a tier by its minimum threshold.
func TierByMin(min int) (Tier, bool) {
	for _, t := range Tiers {
		if t.Min == min {
			return t, true
		}
	}
	return Tier{}, false
}

// NextThreshold returns the smallest tier minimum strictly greater than the
// given total, or the total itself if the top tier is already reached.
func NextThreshold(total int) int {
	for _, t := range Tiers {
		if t.Min > total {
			return t.Min
		}
	}
	return total
}

// Progress reports how far a member is from the next reward threshold.
type Progress struct {
	Total            int `json:"total"`
	NextThresholdMin int `json:"nextThresholdMin"`
	Remaining        int `json:"remaining"`
}

// ProgressFor computes threshold progress for a point total.
func ProgressFor(total int) Progress {
	next := NextThreshold(total)
	remaining := next - total
	if remaining < 0 {
		remaining = 0
	}
	return Progress{Total: total, NextThresholdMin: next, Remaining: remaining}
}
