package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is an ordered sequence of workouts authored by a Trainer.
// The sequence itself lives in PlanEntry records.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlanEntry places a workout at a caller-assigned position within a plan.
// (PlanID, Order) is unique.
type PlanEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Order     int                `bson:"order" json:"order"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// PlanItem is a resolved entry: the workout and its position.
type PlanItem struct {
	Order   int
	Workout Workout
}

// PlanDetails is a plan with its workouts sorted by ascending Order.
type PlanDetails struct {
	Plan     WorkoutPlan
	Items    []PlanItem
	GroupIDs []primitive.ObjectID
}
