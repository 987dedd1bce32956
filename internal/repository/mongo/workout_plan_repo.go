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

const workoutPlanCollectionName = "workout_plans"

type mongoWorkoutPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new WorkoutPlan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.CreatedBy == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("workout plan requires createdBy and name")
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return primitive.NilObjectID, err
	}
	return plan.ID, nil
}

func (r *mongoWorkoutPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return findOne[domain.WorkoutPlan](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoWorkoutPlanRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if len(ids) == 0 {
		return []domain.WorkoutPlan{}, nil
	}
	return findAll[domain.WorkoutPlan](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, byCreatedDesc)
}

func (r *mongoWorkoutPlanRepository) GetByCreator(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return findAll[domain.WorkoutPlan](ctx, r.collection, bson.M{"createdBy": trainerID}, byCreatedDesc)
}

func EnsureWorkoutPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
