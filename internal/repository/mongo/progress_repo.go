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

const progressCollectionName = "progress"

type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new Progress repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

func (r *mongoProgressRepository) Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID || entry.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("progress entry requires userId and workoutId")
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

func (r *mongoProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressEntry, error) {
	return findOne[domain.ProgressEntry](ctx, r.collection, bson.M{"_id": id})
}

// GetByUserID lists a trainee's entries, most recent date first.
func (r *mongoProgressRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	return findAll[domain.ProgressEntry](ctx, r.collection, bson.M{"userId": userID}, byDateDesc)
}

func (r *mongoProgressRepository) GetAll(ctx context.Context) ([]domain.ProgressEntry, error) {
	return findAll[domain.ProgressEntry](ctx, r.collection, bson.M{}, byDateDesc)
}

var byDateDesc = options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})

func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	})
}
