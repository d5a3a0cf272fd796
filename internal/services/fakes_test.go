package services

import (
	"context"
	"time"

	"github.com/allinsport/bonus-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. Lookups return copies, like driver decodes do,
// so a service holding a fetched record never observes later writes.

type fakeMemberRepo struct {
	members        map[primitive.ObjectID]*models.Member
	applyCreditErr error
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[primitive.ObjectID]*models.Member{}}
}

func copyMember(m *models.Member) *models.Member {
	c := *m
	c.Ledger = append([]models.LedgerEntry(nil), m.Ledger...)
	c.Vouchers = append([]models.Voucher(nil), m.Vouchers...)
	return &c
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *models.Member) error {
	member.ID = primitive.NewObjectID()
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	f.members[member.ID] = copyMember(member)
	return nil
}

func (f *fakeMemberRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyMember(m), nil
}

func (f *fakeMemberRepo) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	for _, m := range f.members {
		if m.Email == email {
			return copyMember(m), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeMemberRepo) FindAll(ctx context.Context) ([]*models.Member, error) {
	out := []*models.Member{}
	for _, m := range f.members {
		out = append(out, copyMember(m))
	}
	return out, nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, member *models.Member) error {
	if _, ok := f.members[member.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	f.members[member.ID] = copyMember(member)
	return nil
}

func (f *fakeMemberRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.members[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.members, id)
	return nil
}

func (f *fakeMemberRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.members)), nil
}

func (f *fakeMemberRepo) ApplyCredit(ctx context.Context, memberID primitive.ObjectID, entry *models.LedgerEntry) error {
	if f.applyCreditErr != nil {
		return f.applyCreditErr
	}
	m, ok := f.members[memberID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Ledger = append(m.Ledger, *entry)
	m.TotalPoints += entry.Points
	return nil
}

func (f *fakeMemberRepo) AttachVoucher(ctx context.Context, memberID primitive.ObjectID, voucher *models.Voucher) error {
	m, ok := f.members[memberID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Vouchers = append(m.Vouchers, *voucher)
	return nil
}

type fakePointRequestRepo struct {
	requests map[primitive.ObjectID]*models.PointRequest
}

func newFakePointRequestRepo() *fakePointRequestRepo {
	return &fakePointRequestRepo{requests: map[primitive.ObjectID]*models.PointRequest{}}
}

func (f *fakePointRequestRepo) Create(ctx context.Context, request *models.PointRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	r := *request
	f.requests[request.ID] = &r
	return nil
}

func (f *fakePointRequestRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PointRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *r
	return &c, nil
}

func (f *fakePointRequestRepo) FindPending(ctx context.Context) ([]*models.PointRequest, error) {
	out := []*models.PointRequest{}
	for _, r := range f.requests {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakePointRequestRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.requests[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.requests, id)
	return nil
}

func (f *fakePointRequestRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.requests)), nil
}

type fakeChallengeRepo struct {
	challenges map[primitive.ObjectID]*models.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: map[primitive.ObjectID]*models.Challenge{}}
}

func (f *fakeChallengeRepo) Create(ctx context.Context, challenge *models.Challenge) error {
	challenge.ID = primitive.NewObjectID()
	challenge.CreatedAt = time.Now()
	c := *challenge
	f.challenges[challenge.ID] = &c
	return nil
}

func (f *fakeChallengeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	ch, ok := f.challenges[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *ch
	return &c, nil
}

func (f *fakeChallengeRepo) FindAll(ctx context.Context) ([]*models.Challenge, error) {
	out := []*models.Challenge{}
	for _, ch := range f.challenges {
		c := *ch
		out = append(out, &c)
	}
	return out, nil
}

type fakeSubmissionRepo struct {
	submissions map[primitive.ObjectID]*models.ChallengeSubmission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: map[primitive.ObjectID]*models.ChallengeSubmission{}}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.ChallengeSubmission) error {
	submission.ID = primitive.NewObjectID()
	submission.CreatedAt = time.Now()
	s := *submission
	f.submissions[submission.ID] = &s
	return nil
}

func (f *fakeSubmissionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ChallengeSubmission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *s
	return &c, nil
}

func (f *fakeSubmissionRepo) FindPending(ctx context.Context) ([]*models.ChallengeSubmission, error) {
	out := []*models.ChallengeSubmission{}
	for _, s := range f.submissions {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) FindPendingByMemberAndChallenge(ctx context.Context, memberID, challengeID primitive.ObjectID) (*models.ChallengeSubmission, error) {
	for _, s := range f.submissions {
		if s.MemberID == memberID && s.Challenge.ID == challengeID && s.Status == models.StatusPending {
			c := *s
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSubmissionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.submissions[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.submissions, id)
	return nil
}

func (f *fakeSubmissionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.submissions)), nil
}

type fakeVoucherRequestRepo struct {
	requests map[primitive.ObjectID]*models.VoucherRequest
}

func newFakeVoucherRequestRepo() *fakeVoucherRequestRepo {
	return &fakeVoucherRequestRepo{requests: map[primitive.ObjectID]*models.VoucherRequest{}}
}

func (f *fakeVoucherRequestRepo) Create(ctx context.Context, request *models.VoucherRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	r := *request
	f.requests[request.ID] = &r
	return nil
}

func (f *fakeVoucherRequestRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.VoucherRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *r
	return &c, nil
}

func (f *fakeVoucherRequestRepo) FindByMemberAndThreshold(ctx context.Context, memberID primitive.ObjectID, threshold int) (*models.VoucherRequest, error) {
	for _, r := range f.requests {
		if r.MemberID == memberID && r.Threshold == threshold {
			c := *r
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeVoucherRequestRepo) FindAll(ctx context.Context) ([]*models.VoucherRequest, error) {
	out := []*models.VoucherRequest{}
	for _, r := range f.requests {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeVoucherRequestRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.requests[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeVoucherRequestRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.requests)), nil
}

type fakeNotifier struct {
	credits  int
	vouchers int
}

func (f *fakeNotifier) NotifyCredit(ctx context.Context, member *models.Member, points int, notificationType string) (*models.Notification, error) {
	f.credits++
	return &models.Notification{MemberID: member.ID, Type: notificationType}, nil
}

func (f *fakeNotifier) NotifyVoucherIssued(ctx context.Context, member *models.Member, voucher *models.Voucher) (*models.Notification, error) {
	f.vouchers++
	return &models.Notification{MemberID: member.ID, Type: models.NotificationVoucherIssued}, nil
}

func (f *fakeNotifier) GetNotificationsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.Notification, error) {
	return []*models.Notification{}, nil
}
