package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const groupCollectionName = "groups"

type mongoGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoGroupRepository creates a new Group repository backed by MongoDB.
func NewMongoGroupRepository(db *mongo.Database) repository.GroupRepository {
	return &mongoGroupRepository{
		collection: db.Collection(groupCollectionName),
	}
}

func (r *mongoGroupRepository) Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error) {
	if group.OwnerID == primitive.NilObjectID || group.Name == "" {
		return primitive.NilObjectID, errors.New("group requires ownerId and name")
	}
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, group); err != nil {
		return primitive.NilObjectID, err
	}
	return group.ID, nil
}

func (r *mongoGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	return findOne[domain.Group](ctx, r.collection, bson.M{"_id": id})
}

// GetByOwnerID lists the groups a trainer owns, newest first.
func (r *mongoGroupRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Group, error) {
	return findAll[domain.Group](ctx, r.collection, bson.M{"ownerId": ownerID}, byCreatedDesc)
}

func (r *mongoGroupRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Group, error) {
	if len(ids) == 0 {
		return []domain.Group{}, nil
	}
	return findAll[domain.Group](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, byCreatedDesc)
}

// EnsureGroupIndexes creates necessary indexes. Call during startup.
func EnsureGroupIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
