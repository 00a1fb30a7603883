package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

const principalCollection = "auth_principals"

// MongoPrincipalRepository stores credential records. The collection carries
// a unique index on email.
type MongoPrincipalRepository struct {
	coll *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *MongoPrincipalRepository {
	return &MongoPrincipalRepository{coll: db.Collection(principalCollection)}
}

type mongoPrincipal struct {
	ID             string `bson:"_id"`
	Email          string `bson:"email"`
	PasswordHash   string `bson:"password_hash"`
	EmailConfirmed bool   `bson:"email_confirmed"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func (r *MongoPrincipalRepository) Create(ctx context.Context, p *domain.Principal) error {
	doc := mongoPrincipal{
		ID:             p.ID,
		Email:          p.Email,
		PasswordHash:   p.PasswordHash,
		EmailConfirmed: p.EmailConfirmed,
		CreatedAt:      p.CreatedAt.Unix(),
		UpdatedAt:      p.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPrincipalExists
		}
		return fmt.Errorf("insert principal: %w", err)
	}
	return nil
}

func (r *MongoPrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}

	return &domain.Principal{
		ID:             mp.ID,
		Email:          mp.Email,
		PasswordHash:   mp.PasswordHash,
		EmailConfirmed: mp.EmailConfirmed,
		CreatedAt:      unixToTime(mp.CreatedAt),
		UpdatedAt:      unixToTime(mp.UpdatedAt),
	}, nil
}

func (r *MongoPrincipalRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("count principal: %w", err)
	}
	return n > 0, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
