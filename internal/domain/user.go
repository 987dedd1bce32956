package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleTrainer Role = "Trainer"
	RoleTrainee Role = "Trainee"
)

// Roles lists every valid role.
var Roles = []Role{RoleTrainer, RoleTrainee}

// ParseRole returns the Role named by s, or false when s is not a valid role.
// Matching is exact: "trainer" is not a role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleTrainer:
		return RoleTrainer, true
	case RoleTrainee:
		return RoleTrainee, true
	}
	return "", false
}

// User is created at signup; the role never changes afterwards.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsTrainee() bool {
	return u.Role == RoleTrainee
}

// Session is the decoded content of a verified session token. It is never persisted.
type Session struct {
	UserID primitive.ObjectID
	Role   Role
}
