package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanAssignment makes a workout plan applicable to a group. The relation is
// many-to-many and unique per (PlanID, GroupID).
type PlanAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	GroupID    primitive.ObjectID `bson:"groupId" json:"groupId"`
	AssignedAt time.Time          `bson:"assignedAt" json:"assignedAt"`
}
