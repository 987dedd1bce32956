package repository

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create returns ErrDuplicate when the username is taken.
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Group, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Group, error)
}

type InviteCodeRepository interface {
	// Create returns ErrDuplicate when the code already exists.
	Create(ctx context.Context, invite *domain.InviteCode) error
	GetByCode(ctx context.Context, code string) (*domain.InviteCode, error)
	GetByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.InviteCode, error)
}

// MembershipRepository stores the (group, user) relation.
type MembershipRepository interface {
	// AddIfAbsent is an atomic get-or-create keyed by (groupID, userID).
	// created is false when the membership already existed.
	AddIfAbsent(ctx context.Context, groupID, userID primitive.ObjectID) (created bool, err error)
	IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error)
	GetUserIDsByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error)
	CountByGroupID(ctx context.Context, groupID primitive.ObjectID) (int64, error)
	GetGroupIDsByUserID(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// WorkoutRepository is the global workout catalog.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	GetAll(ctx context.Context) ([]domain.Workout, error)
	GetByCreator(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error)
}

type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetByCreator(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
}

// PlanEntryRepository stores the ordered workout sequence of each plan.
type PlanEntryRepository interface {
	// Insert returns ErrDuplicate when the plan already has an entry at entry.Order.
	Insert(ctx context.Context, entry *domain.PlanEntry) (primitive.ObjectID, error)
	// GetByPlanID returns entries sorted by ascending Order.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanEntry, error)
}

type PlanAssignmentRepository interface {
	// AssignIfAbsent is an atomic get-or-create keyed by (planID, groupID).
	AssignIfAbsent(ctx context.Context, planID, groupID primitive.ObjectID) (created bool, err error)
	GetGroupIDsByPlanID(ctx context.Context, planID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetPlanIDsByGroupIDs(ctx context.Context, groupIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

// ProgressRepository is the progress ledger.
type ProgressRepository interface {
	Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressEntry, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error)
	GetAll(ctx context.Context) ([]domain.ProgressEntry, error)
}

// Store bundles every repository the services depend on.
type Store struct {
	Users       UserRepository
	Groups      GroupRepository
	Invites     InviteCodeRepository
	Memberships MembershipRepository
	Workouts    WorkoutRepository
	Plans       WorkoutPlanRepository
	PlanEntries PlanEntryRepository
	Assignments PlanAssignmentRepository
	Progress    ProgressRepository
}
