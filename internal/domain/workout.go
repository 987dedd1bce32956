package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a global catalog entry. It is not tied to a group or plan when created.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Exercise    string             `bson:"exercise" json:"exercise"` // e.g., "Push-ups"
	Duration    int                `bson:"duration" json:"duration"` // Minutes
	Type        string             `bson:"type" json:"type"`         // e.g., "Strength", "Cardio"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"` // Trainer
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
