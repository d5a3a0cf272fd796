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

// Compile-time check to ensure MemberRepository implements the interface
var _ repositories.MemberRepository = (*MemberRepository)(nil)

// MemberRepository handles MongoDB operations for Member
type MemberRepository struct {
	collection *mongo.Collection
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{
		collection: db.Collection("members"),
	}
}

// Create inserts a new member
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	member.ID = primitive.NewObjectID()
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	if member.Ledger == nil {
		member.Ledger = []models.LedgerEntry{}
	}
	if member.Vouchers == nil {
		member.Vouchers = []models.Voucher{}
	}
	_, err := r.collection.InsertOne(ctx, member)
	return err
}

// FindByID finds a member by ID
func (r *MemberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &member, nil
}

// FindByEmail finds a member by email
func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindAll retrieves all members ordered by total points descending
func (r *MemberRepository) FindAll(ctx context.Context) ([]*models.Member, error) {
	var members []*models.Member
	opts := options.Find().SetSort(bson.D{{Key: "totalPoints", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []*models.Member{}
	}
	return members, nil
}

// Update updates member profile fields
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now()
	filter := bson.M{"_id": member.ID}
	update := bson.M{"$set": bson.M{
		"firstName": member.FirstName,
		"lastName":  member.LastName,
		"email":     member.Email,
		"updatedAt": member.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete deletes a member by ID
func (r *MemberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count gets the total number of members
func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// ApplyCredit appends a ledger entry and increments the total in a single
// document update, so the two changes are never observable separately.
func (r *MemberRepository) ApplyCredit(ctx context.Context, memberID primitive.ObjectID, entry *models.LedgerEntry) error {
	filter := bson.M{"_id": memberID}
	update := bson.M{
		"$inc":  bson.M{"totalPoints": entry.Points},
		"$push": bson.M{"ledger": entry},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AttachVoucher appends an issued voucher to the member's voucher list
func (r *MemberRepository) AttachVoucher(ctx context.Context, memberID primitive.ObjectID, voucher *models.Voucher) error {
	filter := bson.M{"_id": memberID}
	update := bson.M{
		"$push": bson.M{"vouchers": voucher},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
