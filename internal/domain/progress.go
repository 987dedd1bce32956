package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire format of ProgressEntry.Date.
const DateLayout = "2006-01-02"

// ProgressEntry records a trainee's result for a workout on a given day.
type ProgressEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"` // Trainee who logged it
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Value       float64            `bson:"value" json:"value"` // e.g., weight lifted, distance covered
	Date        time.Time          `bson:"date" json:"date"`   // Midnight UTC
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
