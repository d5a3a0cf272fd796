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

// Compile-time check to ensure ChallengeRepository implements the interface
var _ repositories.ChallengeRepository = (*ChallengeRepository)(nil)

// ChallengeRepository handles MongoDB operations for the challenge catalog
type ChallengeRepository struct {
	collection *mongo.Collection
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{
		collection: db.Collection("challenges"),
	}
}

// Create inserts a new challenge
func (r *ChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	challenge.ID = primitive.NewObjectID()
	challenge.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, challenge)
	return err
}

// FindByID finds a challenge by ID
func (r *ChallengeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&challenge)
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindAll retrieves the challenge catalog, newest first
func (r *ChallengeRepository) FindAll(ctx context.Context) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	opts := options.Find().SetSort(bson.D{{Key: "from", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &challenges); err != nil {
		return nil, err
	}
	if challenges == nil {
		challenges = []*models.Challenge{}
	}
	return challenges, nil
}
