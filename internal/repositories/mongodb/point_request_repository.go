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

// Compile-time check to ensure PointRequestRepository implements the interface
var _ repositories.PointRequestRepository = (*PointRequestRepository)(nil)

// PointRequestRepository handles MongoDB operations for PointRequest
type PointRequestRepository struct {
	collection *mongo.Collection
}

// NewPointRequestRepository creates a new PointRequestRepository
func NewPointRequestRepository(db *mongo.Database) *PointRequestRepository {
	return &PointRequestRepository{
		collection: db.Collection("point_requests"),
	}
}

// Create inserts a new point request
func (r *PointRequestRepository) Create(ctx context.Context, request *models.PointRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

// FindByID finds a point request by ID
func (r *PointRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PointRequest, error) {
	var request models.PointRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPending retrieves all pending point requests, oldest first
func (r *PointRequestRepository) FindPending(ctx context.Context) ([]*models.PointRequest, error) {
	var requests []*models.PointRequest
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.PointRequest{}
	}
	return requests, nil
}

// Delete removes a point request from the queue
func (r *PointRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count gets the number of queued point requests
func (r *PointRequestRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": models.StatusPending})
}
