package mongo

import (
	"alcyxob/fitness-tracker/internal/logger"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI
// and verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every Mongo-backed repository against db.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Users:       NewMongoUserRepository(db),
		Groups:      NewMongoGroupRepository(db),
		Invites:     NewMongoInviteCodeRepository(db),
		Memberships: NewMongoMembershipRepository(db),
		Workouts:    NewMongoWorkoutRepository(db),
		Plans:       NewMongoWorkoutPlanRepository(db),
		PlanEntries: NewMongoPlanEntryRepository(db),
		Assignments: NewMongoPlanAssignmentRepository(db),
		Progress:    NewMongoProgressRepository(db),
	}
}

// EnsureIndexes creates every index the repositories rely on. The unique
// indexes carry the membership, ordering and invite-code invariants, so the
// server must not start serving until this returns nil.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{groupCollectionName, EnsureGroupIndexes},
		{inviteCollectionName, EnsureInviteCodeIndexes},
		{membershipCollectionName, EnsureMembershipIndexes},
		{workoutCollectionName, EnsureWorkoutIndexes},
		{workoutPlanCollectionName, EnsureWorkoutPlanIndexes},
		{planEntryCollectionName, EnsurePlanEntryIndexes},
		{planAssignmentCollectionName, EnsurePlanAssignmentIndexes},
		{progressCollectionName, EnsureProgressIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			return fmt.Errorf("indexes for %s: %w", step.collection, err)
		}
	}
	return nil
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) error {
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Warn.Printf("Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
	return err
}

// findAll runs filter against collection and decodes every match.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// findOne decodes the single document matching filter, mapping "no documents" to ErrNotFound.
func findOne[T any](ctx context.Context, collection *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	err := collection.FindOne(ctx, filter).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// upsertOnce inserts a document keyed by filter unless one already exists.
// A duplicate key error means a concurrent upsert won the race, which still
// leaves exactly one document, so it is reported as "not created".
func upsertOnce(ctx context.Context, collection *mongo.Collection, filter bson.M, onInsert bson.M) (bool, error) {
	update := bson.M{"$setOnInsert": onInsert}
	result, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount == 1, nil
}

var byCreatedDesc = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
