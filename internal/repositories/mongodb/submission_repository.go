package mongodb

import (
	"context"
	"time"

	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure SubmissionRepository implements the interface
var _ repositories.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository handles MongoDB operations for ChallengeSubmission
type SubmissionRepository struct {
	collection *mongo.Collection
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{
		collection: db.Collection("challenge_submissions"),
	}
}

// Create inserts a new challenge submission
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.ChallengeSubmission) error {
	submission.ID = primitive.NewObjectID()
	submission.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, submission)
	return err
}

// FindByID finds a submission by ID
func (r *SubmissionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ChallengeSubmission, error) {
	var submission models.ChallengeSubmission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindPending retrieves all pending submissions, oldest first
func (r *SubmissionRepository) FindPending(ctx context.Context) ([]*models.ChallengeSubmission, error) {
	var submissions []*models.ChallengeSubmission
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	if submissions == nil {
		submissions = []*models.ChallengeSubmission{}
	}
	return submissions, nil
}

// FindPendingByMemberAndChallenge finds a member's pending submission for a
// specific challenge, if any
func (r *SubmissionRepository) FindPendingByMemberAndChallenge(ctx context.Context, memberID, challengeID primitive.ObjectID) (*models.ChallengeSubmission, error) {
	var submission models.ChallengeSubmission
	filter := bson.M{
		"memberId":      memberID,
		"challenge._id": challengeID,
		"status":        models.StatusPending,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&submission)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Delete removes a submission from the queue
func (r *SubmissionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count gets the number of queued submissions
func (r *SubmissionRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": models.StatusPending})
}
