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

const planEntryCollectionName = "plan_entries"

// mongoPlanEntryRepository keeps the ordered workout list of each plan.
type mongoPlanEntryRepository struct {
	collection *mongo.Collection
}

func NewMongoPlanEntryRepository(db *mongo.Database) repository.PlanEntryRepository {
	return &mongoPlanEntryRepository{
		collection: db.Collection(planEntryCollectionName),
	}
}

// Insert adds the entry. The unique (planId, order) index rejects a second
// entry at the same position, including one inserted concurrently.
func (r *mongoPlanEntryRepository) Insert(ctx context.Context, entry *domain.PlanEntry) (primitive.ObjectID, error) {
	if entry.PlanID == primitive.NilObjectID || entry.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan entry requires planId and workoutId")
	}
	entry.ID = primitive.NewObjectID()
	entry.AddedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

func (r *mongoPlanEntryRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanEntry, error) {
	return findAll[domain.PlanEntry](ctx, r.collection, bson.M{"planId": planID},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
}

func EnsurePlanEntryIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
