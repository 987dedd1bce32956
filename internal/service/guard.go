package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action names an operation subject to authorization.
type Action int

const (
	ActionCreateGroup Action = iota + 1
	ActionListGroups
	ActionGenerateInvite
	ActionListInvites
	ActionJoinGroup
	ActionListMembers
	ActionCreateWorkout
	ActionViewWorkouts
	ActionCreatePlan
	ActionAddWorkoutToPlan
	ActionAssignPlan
	ActionViewPlans
	ActionLogProgress
	ActionViewProgress
)

var actionNames = map[Action]string{
	ActionCreateGroup:      "create group",
	ActionListGroups:       "list groups",
	ActionGenerateInvite:   "generate invite",
	ActionListInvites:      "list invites",
	ActionJoinGroup:        "join group",
	ActionListMembers:      "list members",
	ActionCreateWorkout:    "create workout",
	ActionViewWorkouts:     "view workouts",
	ActionCreatePlan:       "create workout plan",
	ActionAddWorkoutToPlan: "add workout to plan",
	ActionAssignPlan:       "assign plan",
	ActionViewPlans:        "view workout plans",
	ActionLogProgress:      "log progress",
	ActionViewProgress:     "view progress",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown action"
}

// Allows reports whether role may attempt the action at all. Ownership is
// checked separately by the Authorize* accessors.
func Allows(role domain.Role, a Action) bool {
	switch role {
	case domain.RoleTrainer:
		switch a {
		case ActionCreateGroup, ActionListGroups, ActionGenerateInvite, ActionListInvites,
			ActionListMembers, ActionCreateWorkout, ActionViewWorkouts, ActionCreatePlan,
			ActionAddWorkoutToPlan, ActionAssignPlan, ActionViewPlans, ActionViewProgress:
			return true
		}
	case domain.RoleTrainee:
		switch a {
		case ActionListGroups, ActionJoinGroup, ActionViewWorkouts, ActionViewPlans,
			ActionLogProgress, ActionViewProgress:
			return true
		}
	}
	return false
}

// Guard is the single place where role and ownership decisions are made.
type Guard struct {
	groups      repository.GroupRepository
	plans       repository.WorkoutPlanRepository
	memberships repository.MembershipRepository
	assignments repository.PlanAssignmentRepository
	progress    repository.ProgressRepository
}

func NewGuard(store repository.Store) *Guard {
	return &Guard{
		groups:      store.Groups,
		plans:       store.Plans,
		memberships: store.Memberships,
		assignments: store.Assignments,
		progress:    store.Progress,
	}
}

// RequireRole fails with ErrRoleNotPermitted when the session's role may not perform a.
func (g *Guard) RequireRole(s domain.Session, a Action) error {
	if !Allows(s.Role, a) {
		return ErrRoleNotPermitted
	}
	return nil
}

// AuthorizeGroup loads a group for a group-scoped operation. Every such
// operation is owner-only.
func (g *Guard) AuthorizeGroup(ctx context.Context, s domain.Session, a Action, groupID primitive.ObjectID) (*domain.Group, error) {
	if err := g.RequireRole(s, a); err != nil {
		return nil, err
	}
	group, err := g.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.OwnerID != s.UserID {
		return nil, ErrNotGroupOwner
	}
	return group, nil
}

// AuthorizePlan loads a plan. Trainers reach only plans they created;
// trainees reach only plans assigned to a group they belong to.
func (g *Guard) AuthorizePlan(ctx context.Context, s domain.Session, a Action, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	if err := g.RequireRole(s, a); err != nil {
		return nil, err
	}
	plan, err := g.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	switch s.Role {
	case domain.RoleTrainer:
		if plan.CreatedBy != s.UserID {
			return nil, ErrNotPlanCreator
		}
		return plan, nil
	case domain.RoleTrainee:
		visible, err := g.planVisibleToMember(ctx, plan.ID, s.UserID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrPlanNotVisible
		}
		return plan, nil
	}
	return nil, ErrRoleNotPermitted
}

func (g *Guard) planVisibleToMember(ctx context.Context, planID, userID primitive.ObjectID) (bool, error) {
	groupIDs, err := g.assignments.GetGroupIDsByPlanID(ctx, planID)
	if err != nil {
		return false, err
	}
	for _, groupID := range groupIDs {
		ok, err := g.memberships.IsMember(ctx, groupID, userID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// AuthorizeProgress loads a progress entry. A trainee asking for someone
// else's entry gets ErrProgressNotFound, the same answer as for a missing id.
func (g *Guard) AuthorizeProgress(ctx context.Context, s domain.Session, a Action, entryID primitive.ObjectID) (*domain.ProgressEntry, error) {
	if err := g.RequireRole(s, a); err != nil {
		return nil, err
	}
	entry, err := g.progress.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if s.Role == domain.RoleTrainee && entry.UserID != s.UserID {
		return nil, ErrProgressNotFound
	}
	return entry, nil
}
