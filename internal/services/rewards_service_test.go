package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/allinsport/bonus-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rewardsFixture struct {
	members       *fakeMemberRepo
	pointRequests *fakePointRequestRepo
	challenges    *fakeChallengeRepo
	submissions   *fakeSubmissionRepo
	voucherQueue  *fakeVoucherRequestRepo
	notifier      *fakeNotifier
	service       *RewardsServiceImpl
}

func newRewardsFixture() *rewardsFixture {
	f := &rewardsFixture{
		members:       newFakeMemberRepo(),
		pointRequests: newFakePointRequestRepo(),
		challenges:    newFakeChallengeRepo(),
		submissions:   newFakeSubmissionRepo(),
		voucherQueue:  newFakeVoucherRequestRepo(),
		notifier:      &fakeNotifier{},
	}
	f.service = NewRewardsService(f.members, f.pointRequests, f.challenges, f.submissions, f.voucherQueue, f.notifier)
	return f
}

// seedMember stores a member whose ledger sums to the given total.
func (f *rewardsFixture) seedMember(t *testing.T, total int) primitive.ObjectID {
	t.Helper()
	member := &models.Member{
		FirstName: "Anna",
		LastName:  "Keller",
		Email:     "anna.keller@example.ch",
	}
	if total != 0 {
		member.TotalPoints = total
		member.Ledger = []models.LedgerEntry{{
			ID:     primitive.NewObjectID(),
			Date:   time.Now(),
			Points: total,
			Rule:   models.RuleAdjustment,
			Note:   "opening balance",
		}}
	}
	if err := f.members.Create(context.Background(), member); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return member.ID
}

func (f *rewardsFixture) member(t *testing.T, id primitive.ObjectID) *models.Member {
	t.Helper()
	m, err := f.members.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	return m
}

func checkLedgerSum(t *testing.T, m *models.Member) {
	t.Helper()
	sum := 0
	for _, e := range m.Ledger {
		sum += e.Points
	}
	if sum != m.TotalPoints {
		t.Fatalf("ledger sums to %d but total is %d", sum, m.TotalPoints)
	}
}

func TestRecordActivity(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 0)

	request, err := f.service.RecordActivity(ctx, memberID, "TRAINING", time.Time{}, "Montag 18:00")
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if request.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", request.Status, models.StatusPending)
	}
	if request.Date.IsZero() {
		t.Error("zero request date was not defaulted")
	}

	// Queueing a request must not touch the member
	m := f.member(t, memberID)
	if m.TotalPoints != 0 || len(m.Ledger) != 0 {
		t.Errorf("member mutated by RecordActivity: total=%d ledger=%d", m.TotalPoints, len(m.Ledger))
	}
}

func TestRecordActivityUnknownRule(t *testing.T) {
	f := newRewardsFixture()
	memberID := f.seedMember(t, 0)

	_, err := f.service.RecordActivity(context.Background(), memberID, "MARATHON", time.Now(), "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	pending, _ := f.pointRequests.FindPending(context.Background())
	if len(pending) != 0 {
		t.Errorf("queue has %d requests, want 0", len(pending))
	}
}

func TestApproveRequestCreditsRuleValue(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)

	request, err := f.service.RecordActivity(ctx, memberID, "TRAINING", time.Now(), "")
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	result, err := f.service.ApproveRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if result.PointsCredited != 1 {
		t.Errorf("credited %d points, want 1", result.PointsCredited)
	}
	if result.TotalPoints != 163 {
		t.Errorf("total = %d, want 163", result.TotalPoints)
	}

	m := f.member(t, memberID)
	if len(m.Ledger) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(m.Ledger))
	}
	last := m.Ledger[len(m.Ledger)-1]
	if last.Rule != "TRAINING" || last.Points != 1 {
		t.Errorf("last entry {rule=%q points=%d}, want {TRAINING 1}", last.Rule, last.Points)
	}
	checkLedgerSum(t, m)

	pending, _ := f.pointRequests.FindPending(ctx)
	if len(pending) != 0 {
		t.Errorf("queue has %d requests after approval, want 0", len(pending))
	}
	if f.notifier.credits != 1 {
		t.Errorf("notifier saw %d credits, want 1", f.notifier.credits)
	}
}

func TestApproveRequestTwice(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 50)

	request, _ := f.service.RecordActivity(ctx, memberID, "PRIVATE_TRAINING", time.Now(), "")
	if _, err := f.service.ApproveRequest(ctx, request.ID); err != nil {
		t.Fatalf("first ApproveRequest: %v", err)
	}

	_, err := f.service.ApproveRequest(ctx, request.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second approval err = %v, want ErrNotFound", err)
	}

	m := f.member(t, memberID)
	if m.TotalPoints != 60 {
		t.Errorf("total = %d after double approval, want 60", m.TotalPoints)
	}
	checkLedgerSum(t, m)
}

func TestRejectRequest(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 10)

	request, _ := f.service.RecordActivity(ctx, memberID, "NEW_CLIENT", time.Now(), "")
	if err := f.service.RejectRequest(ctx, request.ID); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}

	m := f.member(t, memberID)
	if m.TotalPoints != 10 {
		t.Errorf("total = %d after rejection, want 10", m.TotalPoints)
	}
	if err := f.service.RejectRequest(ctx, request.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second rejection err = %v, want ErrNotFound", err)
	}
}

func TestApproveRequestAtomicity(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 120)

	request, _ := f.service.RecordActivity(ctx, memberID, "COMPANY_TRAINING", time.Now(), "")
	f.members.applyCreditErr = errors.New("write conflict")

	if _, err := f.service.ApproveRequest(ctx, request.ID); err == nil {
		t.Fatal("expected approval to fail when the credit cannot be written")
	}

	// The failed approval must leave no observable partial state: member
	// untouched, request still queued, nothing notified
	m := f.member(t, memberID)
	if m.TotalPoints != 120 || len(m.Ledger) != 1 {
		t.Errorf("member mutated: total=%d ledger=%d", m.TotalPoints, len(m.Ledger))
	}
	pending, _ := f.pointRequests.FindPending(ctx)
	if len(pending) != 1 {
		t.Errorf("queue has %d requests, want 1", len(pending))
	}
	if f.notifier.credits != 0 {
		t.Errorf("notifier saw %d credits, want 0", f.notifier.credits)
	}
}

func seedChallenge(t *testing.T, f *rewardsFixture, name string, points int, from, to time.Time) primitive.ObjectID {
	t.Helper()
	challenge := &models.Challenge{Name: name, Points: points, From: from, To: to}
	if err := f.challenges.Create(context.Background(), challenge); err != nil {
		t.Fatalf("seed challenge: %v", err)
	}
	return challenge.ID
}

func TestSubmitChallenge(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 0)
	challengeID := seedChallenge(t, f, "Sommer-Challenge", 30,
		time.Now().AddDate(0, 0, -7), time.Now().AddDate(0, 0, 7))

	submission, err := f.service.SubmitChallenge(ctx, memberID, challengeID)
	if err != nil {
		t.Fatalf("SubmitChallenge: %v", err)
	}
	if submission.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", submission.Status, models.StatusPending)
	}
	if submission.Challenge.Points != 30 {
		t.Errorf("denormalized points = %d, want 30", submission.Challenge.Points)
	}

	// A second pending submission for the same challenge is a duplicate
	if _, err := f.service.SubmitChallenge(ctx, memberID, challengeID); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate submission err = %v, want ErrDuplicate", err)
	}
}

func TestSubmitChallengeOutsideWindow(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 0)

	past := seedChallenge(t, f, "Frühlings-Challenge", 20,
		time.Now().AddDate(0, 0, -30), time.Now().AddDate(0, 0, -10))
	if _, err := f.service.SubmitChallenge(ctx, memberID, past); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expired challenge err = %v, want ErrInvalidInput", err)
	}

	future := seedChallenge(t, f, "Herbst-Challenge", 20,
		time.Now().AddDate(0, 0, 10), time.Now().AddDate(0, 0, 30))
	if _, err := f.service.SubmitChallenge(ctx, memberID, future); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("not-yet-started challenge err = %v, want ErrInvalidInput", err)
	}

	pending, _ := f.submissions.FindPending(ctx)
	if len(pending) != 0 {
		t.Errorf("queue has %d submissions, want 0", len(pending))
	}
}

func TestApproveChallenge(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)
	challengeID := seedChallenge(t, f, "Sommer-Challenge", 30,
		time.Now().AddDate(0, 0, -7), time.Now().AddDate(0, 0, 7))

	submission, err := f.service.SubmitChallenge(ctx, memberID, challengeID)
	if err != nil {
		t.Fatalf("SubmitChallenge: %v", err)
	}

	result, err := f.service.ApproveChallenge(ctx, submission.ID)
	if err != nil {
		t.Fatalf("ApproveChallenge: %v", err)
	}
	if result.TotalPoints != 192 {
		t.Errorf("total = %d, want 192", result.TotalPoints)
	}

	m := f.member(t, memberID)
	last := m.Ledger[len(m.Ledger)-1]
	if last.Rule != "SPECIAL_EVENT" {
		t.Errorf("last entry rule = %q, want SPECIAL_EVENT", last.Rule)
	}
	if last.Note != "Challenge: Sommer-Challenge" {
		t.Errorf("last entry note = %q, want %q", last.Note, "Challenge: Sommer-Challenge")
	}
	checkLedgerSum(t, m)

	if _, err := f.service.ApproveChallenge(ctx, submission.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second approval err = %v, want ErrNotFound", err)
	}
}

func TestCreditCrossingQueuesVoucherRequest(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 140)

	// 140 + 20 crosses the 150 minimum but not 200
	if err := f.service.GrantPoints(ctx, memberID, "TRAINING", time.Now(), "", 20); err != nil {
		t.Fatalf("GrantPoints: %v", err)
	}

	requests, _ := f.voucherQueue.FindAll(ctx)
	if len(requests) != 1 {
		t.Fatalf("queue has %d voucher requests, want 1", len(requests))
	}
	if requests[0].Threshold != 150 || requests[0].TierLabel != "CHF 100" {
		t.Errorf("derived request {threshold=%d label=%q}, want {150 CHF 100}", requests[0].Threshold, requests[0].TierLabel)
	}
}

func TestCreditCrossingMultipleThresholds(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 90)

	// 90 + 70 crosses both the 100 and 150 minimums at once
	if err := f.service.GrantPoints(ctx, memberID, "COMPANY_TRAINING", time.Now(), "", 70); err != nil {
		t.Fatalf("GrantPoints: %v", err)
	}

	requests, _ := f.voucherQueue.FindAll(ctx)
	if len(requests) != 2 {
		t.Fatalf("queue has %d voucher requests, want 2", len(requests))
	}
	thresholds := map[int]bool{}
	for _, r := range requests {
		thresholds[r.Threshold] = true
	}
	if !thresholds[100] || !thresholds[150] {
		t.Errorf("derived thresholds = %v, want 100 and 150", thresholds)
	}
}

func TestCreditBelowThresholdQueuesNothing(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)

	// 162 → 192 stays inside the CHF 100 tier
	if err := f.service.GrantPoints(ctx, memberID, "PRIVATE_TRAINING", time.Now(), "", 30); err != nil {
		t.Fatalf("GrantPoints: %v", err)
	}

	requests, _ := f.voucherQueue.FindAll(ctx)
	if len(requests) != 0 {
		t.Errorf("queue has %d voucher requests, want 0", len(requests))
	}
}

func TestRequestVoucher(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)

	request, err := f.service.RequestVoucher(ctx, memberID, 100)
	if err != nil {
		t.Fatalf("RequestVoucher: %v", err)
	}
	if request.TierLabel != "CHF 50" || request.Status != models.StatusRequested {
		t.Errorf("request {label=%q status=%q}, want {CHF 50 requested}", request.TierLabel, request.Status)
	}

	if _, err := f.service.RequestVoucher(ctx, memberID, 100); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate request err = %v, want ErrDuplicate", err)
	}
	if _, err := f.service.RequestVoucher(ctx, memberID, 200); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unreached tier err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.service.RequestVoucher(ctx, memberID, 175); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown threshold err = %v, want ErrNotFound", err)
	}
}

func TestIssueVoucher(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)

	request, err := f.service.RequestVoucher(ctx, memberID, 150)
	if err != nil {
		t.Fatalf("RequestVoucher: %v", err)
	}

	voucher, err := f.service.IssueVoucher(ctx, request.ID, "SN-7K2M")
	if err != nil {
		t.Fatalf("IssueVoucher: %v", err)
	}
	if voucher.Status != models.VoucherIssued || voucher.Label != "CHF 100" {
		t.Errorf("voucher {status=%q label=%q}, want {issued CHF 100}", voucher.Status, voucher.Label)
	}
	wantExpiry := voucher.IssuedAt.AddDate(0, models.VoucherValidityMonths, 0)
	if !voucher.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiresAt = %v, want %v", voucher.ExpiresAt, wantExpiry)
	}

	m := f.member(t, memberID)
	if len(m.Vouchers) != 1 || m.Vouchers[0].Code != "SN-7K2M" {
		t.Fatalf("member vouchers = %+v, want one with code SN-7K2M", m.Vouchers)
	}
	requests, _ := f.voucherQueue.FindAll(ctx)
	if len(requests) != 0 {
		t.Errorf("queue has %d voucher requests after issue, want 0", len(requests))
	}
	if f.notifier.vouchers != 1 {
		t.Errorf("notifier saw %d voucher issues, want 1", f.notifier.vouchers)
	}

	// Holding the voucher blocks a fresh request for the same tier
	if _, err := f.service.RequestVoucher(ctx, memberID, 150); !errors.Is(err, ErrDuplicate) {
		t.Errorf("re-request after issue err = %v, want ErrDuplicate", err)
	}
}

func TestIssueVoucherEmptyCode(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)

	request, _ := f.service.RequestVoucher(ctx, memberID, 100)

	if _, err := f.service.IssueVoucher(ctx, request.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank code err = %v, want ErrInvalidInput", err)
	}

	// Rejection must leave the request queued and the member untouched
	requests, _ := f.voucherQueue.FindAll(ctx)
	if len(requests) != 1 {
		t.Errorf("queue has %d voucher requests, want 1", len(requests))
	}
	m := f.member(t, memberID)
	if len(m.Vouchers) != 0 {
		t.Errorf("member has %d vouchers, want 0", len(m.Vouchers))
	}
}

func TestIssueVoucherUnknownRequest(t *testing.T) {
	f := newRewardsFixture()
	if _, err := f.service.IssueVoucher(context.Background(), primitive.NewObjectID(), "SN-0000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGrantPointsValidation(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 10)

	if err := f.service.GrantPoints(ctx, memberID, "", time.Now(), "", 5); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty rule err = %v, want ErrInvalidInput", err)
	}
	if err := f.service.GrantPoints(ctx, memberID, "TRAINING", time.Now(), "", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero points err = %v, want ErrInvalidInput", err)
	}
	if err := f.service.GrantPoints(ctx, primitive.NewObjectID(), "TRAINING", time.Now(), "", 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown member err = %v, want ErrNotFound", err)
	}
}

func TestGrantPointsNegativeClamped(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 30)

	if err := f.service.GrantPoints(ctx, memberID, "Korrektur", time.Now(), "Fehlbuchung", -50); err != nil {
		t.Fatalf("GrantPoints: %v", err)
	}

	m := f.member(t, memberID)
	if m.TotalPoints != 0 {
		t.Errorf("total = %d, want 0 (clamped)", m.TotalPoints)
	}
	last := m.Ledger[len(m.Ledger)-1]
	if last.Points != -30 {
		t.Errorf("last entry points = %d, want -30", last.Points)
	}
	checkLedgerSum(t, m)
}

func TestAdjustPointsClamp(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 140)

	if err := f.service.AdjustPoints(ctx, memberID, -500); err != nil {
		t.Fatalf("AdjustPoints: %v", err)
	}

	m := f.member(t, memberID)
	if m.TotalPoints != 0 {
		t.Errorf("total = %d, want 0", m.TotalPoints)
	}
	last := m.Ledger[len(m.Ledger)-1]
	if last.Rule != models.RuleAdjustment || last.Points != -140 {
		t.Errorf("last entry {rule=%q points=%d}, want {ADJUSTMENT -140}", last.Rule, last.Points)
	}
	checkLedgerSum(t, m)

	// A further negative adjustment at zero writes nothing
	before := len(m.Ledger)
	if err := f.service.AdjustPoints(ctx, memberID, -10); err != nil {
		t.Fatalf("AdjustPoints at zero: %v", err)
	}
	m = f.member(t, memberID)
	if len(m.Ledger) != before {
		t.Errorf("ledger grew from %d to %d on a fully clamped adjustment", before, len(m.Ledger))
	}
}

func TestProgress(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 162)

	progress, err := f.service.Progress(ctx, memberID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Total != 162 || progress.NextThresholdMin != 200 || progress.Remaining != 38 {
		t.Errorf("progress = %+v, want {162 200 38}", progress)
	}

	if _, err := f.service.Progress(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown member err = %v, want ErrNotFound", err)
	}
}

// The running total must equal the ledger sum across any mix of operations.
func TestLedgerSumInvariantAcrossOperations(t *testing.T) {
	f := newRewardsFixture()
	ctx := context.Background()
	memberID := f.seedMember(t, 80)
	challengeID := seedChallenge(t, f, "Winter-Challenge", 25,
		time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))

	request, _ := f.service.RecordActivity(ctx, memberID, "NEW_CLIENT", time.Now(), "")
	if _, err := f.service.ApproveRequest(ctx, request.ID); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	submission, _ := f.service.SubmitChallenge(ctx, memberID, challengeID)
	if _, err := f.service.ApproveChallenge(ctx, submission.ID); err != nil {
		t.Fatalf("ApproveChallenge: %v", err)
	}
	if err := f.service.GrantPoints(ctx, memberID, "TRAINING", time.Now(), "", 7); err != nil {
		t.Fatalf("GrantPoints: %v", err)
	}
	if err := f.service.AdjustPoints(ctx, memberID, -12); err != nil {
		t.Fatalf("AdjustPoints: %v", err)
	}

	m := f.member(t, memberID)
	if m.TotalPoints != 80+50+25+7-12 {
		t.Errorf("total = %d, want %d", m.TotalPoints, 80+50+25+7-12)
	}
	checkLedgerSum(t, m)
}
