package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

const alertCollection = "alerts"

type MongoAlertRepository struct {
	coll *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *MongoAlertRepository {
	return &MongoAlertRepository{coll: db.Collection(alertCollection)}
}

func (r *MongoAlertRepository) Insert(ctx context.Context, alert *domain.Alert) error {
	if _, err := r.coll.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *MongoAlertRepository) FindByID(ctx context.Context, id string) (*domain.Alert, error) {
	var alert domain.Alert
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&alert); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &alert, nil
}

func (r *MongoAlertRepository) Recent(ctx context.Context, limit int) ([]domain.Alert, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "detected_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var alerts []domain.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return alerts, nil
}
