package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/logger"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanService is the plan composition engine: ordered workouts per plan
// and plan-to-group assignment.
type PlanService interface {
	CreatePlan(ctx context.Context, s domain.Session, name, description string) (*domain.WorkoutPlan, error)
	// AddWorkoutToPlan places a workout at order. An occupied order is
	// rejected with ErrOrderTaken, never renumbered.
	AddWorkoutToPlan(ctx context.Context, s domain.Session, planID, workoutID primitive.ObjectID, order int) (*domain.PlanEntry, error)
	// AssignPlanToGroup is idempotent; created is false when the plan was already assigned.
	AssignPlanToGroup(ctx context.Context, s domain.Session, planID, groupID primitive.ObjectID) (created bool, err error)
	GetPlan(ctx context.Context, s domain.Session, planID primitive.ObjectID) (*domain.PlanDetails, error)
	ListPlans(ctx context.Context, s domain.Session) ([]domain.WorkoutPlan, error)
}

type planService struct {
	plans       repository.WorkoutPlanRepository
	entries     repository.PlanEntryRepository
	workouts    repository.WorkoutRepository
	assignments repository.PlanAssignmentRepository
	memberships repository.MembershipRepository
	guard       *Guard
}

func NewPlanService(store repository.Store, guard *Guard) PlanService {
	return &planService{
		plans:       store.Plans,
		entries:     store.PlanEntries,
		workouts:    store.Workouts,
		assignments: store.Assignments,
		memberships: store.Memberships,
		guard:       guard,
	}
}

func (s *planService) CreatePlan(ctx context.Context, sess domain.Session, name, description string) (*domain.WorkoutPlan, error) {
	if err := s.guard.RequireRole(sess, ActionCreatePlan); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("plan name is required")
	}
	plan := &domain.WorkoutPlan{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   sess.UserID,
	}
	if _, err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) AddWorkoutToPlan(ctx context.Context, sess domain.Session, planID, workoutID primitive.ObjectID, order int) (*domain.PlanEntry, error) {
	plan, err := s.guard.AuthorizePlan(ctx, sess, ActionAddWorkoutToPlan, planID)
	if err != nil {
		return nil, err
	}
	if order < 1 {
		return nil, validationError("order must be a positive integer")
	}
	if _, err := s.workouts.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownWorkout
		}
		return nil, err
	}

	entry := &domain.PlanEntry{PlanID: plan.ID, WorkoutID: workoutID, Order: order}
	if _, err := s.entries.Insert(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w (order %d)", ErrOrderTaken, order)
		}
		return nil, err
	}
	return entry, nil
}

func (s *planService) AssignPlanToGroup(ctx context.Context, sess domain.Session, planID, groupID primitive.ObjectID) (bool, error) {
	plan, err := s.guard.AuthorizePlan(ctx, sess, ActionAssignPlan, planID)
	if err != nil {
		return false, err
	}
	group, err := s.guard.AuthorizeGroup(ctx, sess, ActionAssignPlan, groupID)
	if err != nil {
		return false, err
	}

	created, err := s.assignments.AssignIfAbsent(ctx, plan.ID, group.ID)
	if err != nil {
		return false, err
	}
	if created {
		logger.Info.Printf("Plan %s assigned to group %s", plan.ID.Hex(), group.ID.Hex())
	}
	return created, nil
}

// GetPlan returns the plan with its workouts sorted by ascending order.
// Entries whose workout has disappeared from the catalog are skipped.
func (s *planService) GetPlan(ctx context.Context, sess domain.Session, planID primitive.ObjectID) (*domain.PlanDetails, error) {
	plan, err := s.guard.AuthorizePlan(ctx, sess, ActionViewPlans, planID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	workoutIDs := make([]primitive.ObjectID, len(entries))
	for i, e := range entries {
		workoutIDs[i] = e.WorkoutID
	}
	workouts, err := s.workouts.GetByIDs(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Workout, len(workouts))
	for _, w := range workouts {
		byID[w.ID] = w
	}

	items := make([]domain.PlanItem, 0, len(entries))
	for _, e := range entries {
		w, ok := byID[e.WorkoutID]
		if !ok {
			logger.Warn.Printf("Plan %s references missing workout %s", plan.ID.Hex(), e.WorkoutID.Hex())
			continue
		}
		items = append(items, domain.PlanItem{Order: e.Order, Workout: w})
	}

	groupIDs, err := s.assignments.GetGroupIDsByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	return &domain.PlanDetails{Plan: *plan, Items: items, GroupIDs: groupIDs}, nil
}

// ListPlans returns a Trainer's own plans, or for a Trainee the plans
// assigned to any group they belong to.
func (s *planService) ListPlans(ctx context.Context, sess domain.Session) ([]domain.WorkoutPlan, error) {
	if err := s.guard.RequireRole(sess, ActionViewPlans); err != nil {
		return nil, err
	}
	if sess.Role == domain.RoleTrainer {
		return s.plans.GetByCreator(ctx, sess.UserID)
	}
	groupIDs, err := s.memberships.GetGroupIDsByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	planIDs, err := s.assignments.GetPlanIDsByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return s.plans.GetByIDs(ctx, planIDs)
}
