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

const membershipCollectionName = "memberships"

type mongoMembershipRepository struct {
	collection *mongo.Collection
}

func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

// AddIfAbsent upserts the (group, user) pair. The unique compound index
// guarantees a single row even when two upserts race.
func (r *mongoMembershipRepository) AddIfAbsent(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	if groupID == primitive.NilObjectID || userID == primitive.NilObjectID {
		return false, errors.New("membership requires groupId and userId")
	}
	filter := bson.M{"groupId": groupID, "userId": userID}
	return upsertOnce(ctx, r.collection, filter, bson.M{"joinedAt": time.Now().UTC()})
}

func (r *mongoMembershipRepository) IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"groupId": groupID, "userId": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoMembershipRepository) GetUserIDsByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	memberships, err := findAll[domain.Membership](ctx, r.collection, bson.M{"groupId": groupID},
		options.Find().SetSort(bson.D{{Key: "joinedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.UserID
	}
	return ids, nil
}

func (r *mongoMembershipRepository) CountByGroupID(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"groupId": groupID})
}

func (r *mongoMembershipRepository) GetGroupIDsByUserID(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	memberships, err := findAll[domain.Membership](ctx, r.collection, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.GroupID
	}
	return ids, nil
}

func EnsureMembershipIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// One membership per (group, user)
			Keys:    bson.D{{Key: "groupId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	})
}
