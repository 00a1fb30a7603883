package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

const profileCollection = "user_info"

// MongoProfileRepository stores user_info rows keyed by principal id. It also
// holds the principal collection so inserts can enforce the foreign-key
// invariant (one profile per existing principal).
type MongoProfileRepository struct {
	coll       *mongo.Collection
	principals *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{
		coll:       db.Collection(profileCollection),
		principals: db.Collection(principalCollection),
	}
}

type mongoProfile struct {
	ID         string  `bson:"_id"`
	Email      string  `bson:"email"`
	Name       *string `bson:"name,omitempty"`
	Role       string  `bson:"role"`
	Status     string  `bson:"status"`
	Department *string `bson:"department,omitempty"`
	CreatedAt  int64   `bson:"created_at"`
	UpdatedAt  int64   `bson:"updated_at"`
}

func toDomainProfile(mp mongoProfile) domain.Profile {
	return domain.Profile{
		ID:         mp.ID,
		Email:      mp.Email,
		Name:       mp.Name,
		Role:       domain.Role(mp.Role),
		Status:     domain.Status(mp.Status),
		Department: mp.Department,
		CreatedAt:  unixToTime(mp.CreatedAt),
		UpdatedAt:  unixToTime(mp.UpdatedAt),
	}
}

func (r *MongoProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	p := toDomainProfile(mp)
	return &p, nil
}

func (r *MongoProfileRepository) ListByEmail(ctx context.Context) ([]domain.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []domain.Profile
	for cursor.Next(ctx) {
		var mp mongoProfile
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, toDomainProfile(mp))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Create inserts a profile row after verifying the referenced principal is
// visible. A missing principal yields domain.ErrForeignKeyViolation so the
// signup reconcile loop can retry.
func (r *MongoProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	n, err := r.principals.CountDocuments(ctx, bson.M{"_id": p.ID})
	if err != nil {
		return fmt.Errorf("insert profile: check principal: %w", err)
	}
	if n == 0 {
		return domain.ErrForeignKeyViolation
	}

	doc := mongoProfile{
		ID:         p.ID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       string(p.Role),
		Status:     string(p.Status),
		Department: p.Department,
		CreatedAt:  p.CreatedAt.Unix(),
		UpdatedAt:  p.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *MongoProfileRepository) UpdateRegistration(ctx context.Context, id, email string, role domain.Role, status domain.Status) error {
	update := bson.M{"$set": bson.M{
		"email":      email,
		"role":       string(role),
		"status":     string(status),
		"updated_at": time.Now().UTC().Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *MongoProfileRepository) UpdateRoleStatus(ctx context.Context, id string, role *domain.Role, status *domain.Status) error {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if role != nil {
		set["role"] = string(*role)
	}
	if status != nil {
		set["status"] = string(*status)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
