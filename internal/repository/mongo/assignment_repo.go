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

const planAssignmentCollectionName = "plan_assignments"

// mongoPlanAssignmentRepository implements repository.PlanAssignmentRepository
type mongoPlanAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanAssignmentRepository creates a new PlanAssignment repository backed by MongoDB.
func NewMongoPlanAssignmentRepository(db *mongo.Database) repository.PlanAssignmentRepository {
	return &mongoPlanAssignmentRepository{
		collection: db.Collection(planAssignmentCollectionName),
	}
}

// AssignIfAbsent links a plan to a group once. Repeat calls are no-ops.
func (r *mongoPlanAssignmentRepository) AssignIfAbsent(ctx context.Context, planID, groupID primitive.ObjectID) (bool, error) {
	if planID == primitive.NilObjectID || groupID == primitive.NilObjectID {
		return false, errors.New("assignment requires planId and groupId")
	}
	filter := bson.M{"planId": planID, "groupId": groupID}
	return upsertOnce(ctx, r.collection, filter, bson.M{"assignedAt": time.Now().UTC()})
}

// GetGroupIDsByPlanID lists the groups a plan is assigned to.
func (r *mongoPlanAssignmentRepository) GetGroupIDsByPlanID(ctx context.Context, planID primitive.ObjectID) ([]primitive.ObjectID, error) {
	assignments, err := findAll[domain.PlanAssignment](ctx, r.collection, bson.M{"planId": planID},
		options.Find().SetSort(bson.D{{Key: "assignedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(assignments))
	for i, a := range assignments {
		ids[i] = a.GroupID
	}
	return ids, nil
}

// GetPlanIDsByGroupIDs lists the distinct plans assigned to any of the given groups.
func (r *mongoPlanAssignmentRepository) GetPlanIDsByGroupIDs(ctx context.Context, groupIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(groupIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	assignments, err := findAll[domain.PlanAssignment](ctx, r.collection, bson.M{"groupId": bson.M{"$in": groupIDs}})
	if err != nil {
		return nil, err
	}
	seen := make(map[primitive.ObjectID]struct{}, len(assignments))
	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.PlanID]; ok {
			continue
		}
		seen[a.PlanID] = struct{}{}
		ids = append(ids, a.PlanID)
	}
	return ids, nil
}

// EnsurePlanAssignmentIndexes creates necessary indexes. Call during startup.
func EnsurePlanAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "groupId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "groupId", Value: 1}},
			Options: options.Index(),
		},
	})
}
