package enemies

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "enemies"

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(collectionName)}
}

func (r *MongoRepository) Insert(ctx context.Context, enemy *models.Enemy) (*models.Enemy, error) {
	res, err := r.collection.InsertOne(ctx, enemy)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	enemy.ID = res.InsertedID.(primitive.ObjectID)
	return enemy, nil
}

func (r *MongoRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*models.Enemy, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := []*models.Enemy{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *MongoRepository) UpdateOneByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string, patch models.EnemyPatch) (*models.Enemy, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.GrudgeLevel != nil {
		set["grudgeLevel"] = *patch.GrudgeLevel
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}

	updated := &models.Enemy{}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *MongoRepository) DeleteOneByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
