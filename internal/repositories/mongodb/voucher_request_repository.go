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

// Compile-time check to ensure VoucherRequestRepository implements the interface
var _ repositories.VoucherRequestRepository = (*VoucherRequestRepository)(nil)

// VoucherRequestRepository handles MongoDB operations for VoucherRequest
type VoucherRequestRepository struct {
	collection *mongo.Collection
}

// NewVoucherRequestRepository creates a new VoucherRequestRepository
func NewVoucherRequestRepository(db *mongo.Database) *VoucherRequestRepository {
	return &VoucherRequestRepository{
		collection: db.Collection("voucher_requests"),
	}
}

// Create inserts a new voucher request
func (r *VoucherRequestRepository) Create(ctx context.Context, request *models.VoucherRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

// FindByID finds a voucher request by ID
func (r *VoucherRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.VoucherRequest, error) {
	var request models.VoucherRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByMemberAndThreshold finds a member's queued request for a tier threshold
func (r *VoucherRequestRepository) FindByMemberAndThreshold(ctx context.Context, memberID primitive.ObjectID, threshold int) (*models.VoucherRequest, error) {
	var request models.VoucherRequest
	filter := bson.M{"memberId": memberID, "threshold": threshold}
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindAll retrieves all queued voucher requests, oldest first
func (r *VoucherRequestRepository) FindAll(ctx context.Context) ([]*models.VoucherRequest, error) {
	var requests []*models.VoucherRequest
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.VoucherRequest{}
	}
	return requests, nil
}

// Delete removes a voucher request from the queue
func (r *VoucherRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count gets the number of queued voucher requests
func (r *VoucherRequestRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
