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

const inviteCollectionName = "invite_codes"

// mongoInviteCodeRepository stores invite codes keyed by the code itself,
// so _id uniqueness is the global code uniqueness.
type mongoInviteCodeRepository struct {
	collection *mongo.Collection
}

func NewMongoInviteCodeRepository(db *mongo.Database) repository.InviteCodeRepository {
	return &mongoInviteCodeRepository{
		collection: db.Collection(inviteCollectionName),
	}
}

func (r *mongoInviteCodeRepository) Create(ctx context.Context, invite *domain.InviteCode) error {
	if invite.Code == "" || invite.GroupID == primitive.NilObjectID {
		return errors.New("invite requires code and groupId")
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, invite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoInviteCodeRepository) GetByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	return findOne[domain.InviteCode](ctx, r.collection, bson.M{"_id": code})
}

// GetByGroupID lists a group's live codes, newest first.
func (r *mongoInviteCodeRepository) GetByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.InviteCode, error) {
	return findAll[domain.InviteCode](ctx, r.collection, bson.M{"groupId": groupID}, byCreatedDesc)
}

func EnsureInviteCodeIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "groupId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
