package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is owned exclusively by the Trainer who created it.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`

	MembersCount int64 `bson:"-" json:"membersCount"` // Filled in on read, not stored
}

// InviteCode grants membership of exactly one group. A group may have many
// live codes; generating a new one never invalidates the others.
type InviteCode struct {
	Code      string             `bson:"_id" json:"code"` // Globally unique
	GroupID   primitive.ObjectID `bson:"groupId" json:"groupId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Membership is unique per (GroupID, UserID).
type Membership struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"groupId" json:"groupId"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
}
